// Package effects provides ready-to-use stereo effect processors composed
// from the lower-level dsp packages.
//
// Effects in this package:
//   - BitCrusher: bit-depth quantization, float-constant quantization, and
//     sample-and-hold downsampling for lo-fi aesthetics.
//   - Delay: stereo feedback delay with dry/wet mix.
//   - Chorus, Flanger, Vibrato: modulated-delay effects on a shared LFO
//     delay line.
//   - Distortion: DC-blocked, 4x-oversampled waveshaping with selectable
//     transfer curves.
//   - Equalizer: stereo biquad with physical-unit (Hz) parameter setters.
//   - Compressor: dynamic range processor with input gain, makeup gain,
//     and dry/wet mix.
//
// All effects validate parameters at construction and in setters, process
// without allocating, and support single-sample or frame processing plus
// in-place buffer helpers.
package effects

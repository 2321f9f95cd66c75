package asset

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/levelview/internal/engine/anim"
)

// clip converts a glTF animation into an anim.Clip bound to the built nodes.
// Channels targeting morph weights or unbuilt nodes are skipped.
func (b *builder) clip(a *gltf.Animation) (*anim.Clip, error) {
	channels := make([]anim.Channel, 0, len(a.Channels))

	for i, ch := range a.Channels {
		if ch.Target.Node == nil {
			continue
		}
		node := *ch.Target.Node
		if node < 0 || node >= len(b.nodes) || b.nodes[node] == nil {
			continue
		}

		var path anim.Path
		switch ch.Target.Path {
		case gltf.TRSTranslation:
			path = anim.PathTranslation
		case gltf.TRSRotation:
			path = anim.PathRotation
		case gltf.TRSScale:
			path = anim.PathScale
		default:
			continue
		}

		if ch.Sampler < 0 || ch.Sampler >= len(a.Samplers) {
			return nil, fmt.Errorf("channel %d: sampler %d out of range", i, ch.Sampler)
		}
		sampler := a.Samplers[ch.Sampler]

		times, err := b.readTimes(sampler.Input)
		if err != nil {
			return nil, fmt.Errorf("channel %d input: %w", i, err)
		}
		values, err := b.readValues(sampler.Output)
		if err != nil {
			return nil, fmt.Errorf("channel %d output: %w", i, err)
		}

		interp := interpolation(sampler.Interpolation)
		want := len(times)
		if interp == anim.InterpCubicSpline {
			want *= 3
		}
		if len(values) != want {
			return nil, fmt.Errorf("channel %d: %d values for %d keyframes: %w", i, len(values), len(times), ErrBadAccessor)
		}

		channels = append(channels, anim.Channel{
			Target:        b.nodes[node],
			Path:          path,
			Interpolation: interp,
			Times:         times,
			Values:        values,
		})
	}

	return anim.NewClip(a.Name, channels), nil
}

func interpolation(i gltf.Interpolation) anim.Interpolation {
	switch i {
	case gltf.InterpolationStep:
		return anim.InterpStep
	case gltf.InterpolationCubicSpline:
		return anim.InterpCubicSpline
	default:
		return anim.InterpLinear
	}
}

func (b *builder) readTimes(idx int) ([]float32, error) {
	acr, err := b.accessor(idx)
	if err != nil {
		return nil, err
	}
	data, err := modeler.ReadAccessor(b.doc, acr, nil)
	if err != nil {
		return nil, err
	}
	times, ok := data.([]float32)
	if !ok {
		return nil, fmt.Errorf("keyframe times are %T: %w", data, ErrBadAccessor)
	}
	return times, nil
}

// readValues reads VEC3 or VEC4 outputs into four-wide float elements.
// Normalized integer VEC4 outputs (quantized rotations) are dequantized.
func (b *builder) readValues(idx int) ([][4]float32, error) {
	acr, err := b.accessor(idx)
	if err != nil {
		return nil, err
	}
	data, err := modeler.ReadAccessor(b.doc, acr, nil)
	if err != nil {
		return nil, err
	}

	switch v := data.(type) {
	case [][3]float32:
		out := make([][4]float32, len(v))
		for i, e := range v {
			out[i] = [4]float32{e[0], e[1], e[2], 0}
		}
		return out, nil
	case [][4]float32:
		return v, nil
	}

	if !acr.Normalized {
		return nil, fmt.Errorf("keyframe values are %T: %w", data, ErrBadAccessor)
	}
	switch v := data.(type) {
	case [][4]int8:
		return dequantize(v, 127, true), nil
	case [][4]uint8:
		return dequantize(v, 255, false), nil
	case [][4]int16:
		return dequantize(v, 32767, true), nil
	case [][4]uint16:
		return dequantize(v, 65535, false), nil
	default:
		return nil, fmt.Errorf("keyframe values are normalized %T: %w", data, ErrBadAccessor)
	}
}

// dequantize maps normalized integers to floats. Signed values are clamped
// to -1 since the most negative integer has no positive counterpart.
func dequantize[T int8 | uint8 | int16 | uint16](v [][4]T, max float32, signed bool) [][4]float32 {
	out := make([][4]float32, len(v))
	for i, e := range v {
		for j, c := range e {
			f := float32(c) / max
			if signed && f < -1 {
				f = -1
			}
			out[i][j] = f
		}
	}
	return out
}

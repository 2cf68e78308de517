package transcoder

import (
	"github.com/wippyai/mxbridge/errors"
	"github.com/wippyai/mxbridge/host"
	"github.com/wippyai/mxbridge/mx"
	"github.com/wippyai/mxbridge/transcoder/internal/abi"
)

// readPlane copies n elements of kind out of mem. When exact is set the
// plane must hold exactly n elements; otherwise it may hold more.
func readPlane(mem mx.Memory, kind host.Kind, n int, exact bool, plane string) (any, error) {
	size, ok := abi.PlaneBytes(n, kind.Size())
	if !ok {
		return nil, errors.ShapeMismatch(errors.PhaseDecode, nil,
			"%s plane of %d %s elements exceeds limits", plane, n, kind)
	}
	if mem == nil {
		return nil, errors.ShapeMismatch(errors.PhaseDecode, nil,
			"missing %s plane for %d elements", plane, n)
	}
	if mem.Size() < size || (exact && mem.Size() != size) {
		return nil, errors.ShapeMismatch(errors.PhaseDecode, nil,
			"%s plane holds %d bytes, dimensions need %d", plane, mem.Size(), size)
	}
	b, err := mem.Read(0, size)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseDecode, errors.KindShapeMismatch, err, "read "+plane+" plane")
	}
	out, err := abi.DecodePlane(kind, b, n)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseDecode, errors.KindShapeMismatch, err, "convert "+plane+" plane")
	}
	return out, nil
}

// writePlane converts plane element by element into a staging buffer and
// stores it in mem, which must be exactly the plane's size.
func writePlane(mem mx.Memory, plane any, name string) error {
	kind, n := host.PlaneKind(plane)
	size, ok := abi.PlaneBytes(n, kind.Size())
	if !ok {
		return errors.InvalidInput(errors.PhaseEncode, "%s plane of %d %s elements exceeds limits", name, n, kind)
	}
	if size == 0 {
		return nil
	}
	if mem == nil || mem.Size() != size {
		got := uint32(0)
		if mem != nil {
			got = mem.Size()
		}
		return errors.ShapeMismatch(errors.PhaseEncode, nil,
			"%s plane holds %d bytes, value needs %d", name, got, size)
	}

	buf := getPlaneBuf(int(size))
	defer putPlaneBuf(buf)

	if _, err := abi.EncodePlane(plane, *buf); err != nil {
		return errors.Wrap(errors.PhaseEncode, errors.KindInvalidInput, err, "convert "+name+" plane")
	}
	if err := mem.Write(0, *buf); err != nil {
		return errors.Wrap(errors.PhaseEncode, errors.KindResource, err, "write "+name+" plane")
	}
	return nil
}

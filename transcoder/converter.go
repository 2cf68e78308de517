package transcoder

import (
	"github.com/wippyai/mxbridge/host"
)

// Converter decodes a workspace variable whose class name it is
// registered under. It runs inside the Session of the current call and may
// use Session.Temp, Session.Eval and Session.Decode.
type Converter func(s *Session, name string) (host.Value, error)

// StructConverter decodes an object by converting it to a struct first.
// Register it for user classes whose public properties are enough.
func StructConverter(s *Session, name string) (host.Value, error) {
	tmp := s.Temp()
	if err := s.Eval("%s = struct(%s);", tmp, name); err != nil {
		return nil, err
	}
	return decodeStruct(s, tmp)
}

func builtinConverters() map[string]Converter {
	return map[string]Converter{
		"cell":            decodeCell,
		"struct":          decodeStruct,
		"function_handle": decodeFunction,
	}
}

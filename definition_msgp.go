package flowgraph

import (
	"fmt"
	"io"

	"github.com/tinylib/msgp/msgp"
)

// Field keys of the msgpack encoding of a Definition. The runtime decodes by
// key, so new fields may be appended without breaking older readers.
const (
	msgStreamParams = "sp"
	msgFuncParams   = "fp"
	msgConsts       = "c"
	msgApps         = "a"
	msgLocals       = "l"
	msgYields       = "y"
	msgCaptures     = "x"
)

// WriteMsgpack writes d to w using the msgpack wire format.
func (d *Definition) WriteMsgpack(w io.Writer) error {
	enc := msgp.NewWriter(w)
	if err := d.EncodeMsg(enc); err != nil {
		return err
	}
	return enc.Flush()
}

// ReadMsgpack reads a definition written by WriteMsgpack.
func ReadMsgpack(r io.Reader) (*Definition, error) {
	d := &Definition{}
	if err := d.DecodeMsg(msgp.NewReader(r)); err != nil {
		return nil, &Error{Code: EInvalid, Msg: "malformed msgpack definition", Err: err}
	}
	return d, nil
}

// EncodeMsg implements msgp.Encodable.
func (d *Definition) EncodeMsg(en *msgp.Writer) error {
	if err := en.WriteMapHeader(7); err != nil {
		return err
	}
	if err := writeIDs(en, msgStreamParams, d.StreamParams); err != nil {
		return err
	}
	if err := writeIDs(en, msgFuncParams, d.FuncParams); err != nil {
		return err
	}

	if err := en.WriteString(msgConsts); err != nil {
		return err
	}
	if err := en.WriteArrayHeader(uint32(len(d.Consts))); err != nil {
		return err
	}
	for _, c := range d.Consts {
		if err := en.WriteArrayHeader(2); err != nil {
			return err
		}
		if err := en.WriteUint64(uint64(c.ID)); err != nil {
			return err
		}
		if err := writeValue(en, c.Value); err != nil {
			return err
		}
	}

	if err := en.WriteString(msgApps); err != nil {
		return err
	}
	if err := en.WriteArrayHeader(uint32(len(d.Apps))); err != nil {
		return err
	}
	for _, a := range d.Apps {
		if err := en.WriteArrayHeader(5); err != nil {
			return err
		}
		if err := en.WriteUint64(uint64(a.ID)); err != nil {
			return err
		}
		if err := en.WriteUint64(uint64(a.Func)); err != nil {
			return err
		}
		for _, ids := range [][]ID{a.Outputs, a.StreamArgs, a.FuncArgs} {
			if err := writeIDArray(en, ids); err != nil {
				return err
			}
		}
	}

	if err := en.WriteString(msgLocals); err != nil {
		return err
	}
	if err := en.WriteArrayHeader(uint32(len(d.Locals))); err != nil {
		return err
	}
	for _, l := range d.Locals {
		if err := en.WriteArrayHeader(2); err != nil {
			return err
		}
		if err := en.WriteUint64(uint64(l.Func)); err != nil {
			return err
		}
		if err := l.Def.EncodeMsg(en); err != nil {
			return err
		}
	}

	if err := writeIDs(en, msgYields, d.Yields); err != nil {
		return err
	}
	return writeIDs(en, msgCaptures, d.Captures)
}

func writeIDs(en *msgp.Writer, key string, ids []ID) error {
	if err := en.WriteString(key); err != nil {
		return err
	}
	return writeIDArray(en, ids)
}

func writeIDArray(en *msgp.Writer, ids []ID) error {
	if err := en.WriteArrayHeader(uint32(len(ids))); err != nil {
		return err
	}
	for _, id := range ids {
		if err := en.WriteUint64(uint64(id)); err != nil {
			return err
		}
	}
	return nil
}

func writeValue(en *msgp.Writer, v Value) error {
	switch v.Type {
	case NumberType:
		return en.WriteFloat64(v.Number)
	case TextType:
		return en.WriteString(v.Text)
	case BooleanType:
		return en.WriteBool(v.Boolean)
	}
	return en.WriteNil()
}

// DecodeMsg implements msgp.Decodable.
func (d *Definition) DecodeMsg(dc *msgp.Reader) error {
	sz, err := dc.ReadMapHeader()
	if err != nil {
		return err
	}
	*d = *Empty()
	for i := uint32(0); i < sz; i++ {
		key, err := dc.ReadString()
		if err != nil {
			return err
		}
		switch key {
		case msgStreamParams:
			d.StreamParams, err = readIDArray(dc)
		case msgFuncParams:
			d.FuncParams, err = readIDArray(dc)
		case msgConsts:
			d.Consts, err = readConsts(dc)
		case msgApps:
			d.Apps, err = readApps(dc)
		case msgLocals:
			d.Locals, err = readLocals(dc)
		case msgYields:
			d.Yields, err = readIDArray(dc)
		case msgCaptures:
			d.Captures, err = readIDArray(dc)
		default:
			err = dc.Skip()
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func readIDArray(dc *msgp.Reader) ([]ID, error) {
	n, err := dc.ReadArrayHeader()
	if err != nil {
		return nil, err
	}
	ids := make([]ID, n)
	for i := range ids {
		u, err := dc.ReadUint64()
		if err != nil {
			return nil, err
		}
		ids[i] = ID(u)
	}
	return ids, nil
}

func readTuple(dc *msgp.Reader, want uint32) error {
	n, err := dc.ReadArrayHeader()
	if err != nil {
		return err
	}
	if n != want {
		return fmt.Errorf("expected tuple of %d elements, got %d", want, n)
	}
	return nil
}

func readConsts(dc *msgp.Reader) ([]ConstStream, error) {
	n, err := dc.ReadArrayHeader()
	if err != nil {
		return nil, err
	}
	consts := make([]ConstStream, n)
	for i := range consts {
		if err := readTuple(dc, 2); err != nil {
			return nil, err
		}
		u, err := dc.ReadUint64()
		if err != nil {
			return nil, err
		}
		consts[i].ID = ID(u)
		if consts[i].Value, err = readValue(dc); err != nil {
			return nil, err
		}
	}
	return consts, nil
}

func readValue(dc *msgp.Reader) (Value, error) {
	t, err := dc.NextType()
	if err != nil {
		return Undefined, err
	}
	switch t {
	case msgp.NilType:
		return Undefined, dc.ReadNil()
	case msgp.Float64Type:
		f, err := dc.ReadFloat64()
		return NumberValue(f), err
	case msgp.StrType:
		s, err := dc.ReadString()
		return TextValue(s), err
	case msgp.BoolType:
		b, err := dc.ReadBool()
		return BooleanValue(b), err
	}
	return Undefined, fmt.Errorf("unexpected value type %s", t)
}

func readApps(dc *msgp.Reader) ([]Application, error) {
	n, err := dc.ReadArrayHeader()
	if err != nil {
		return nil, err
	}
	apps := make([]Application, n)
	for i := range apps {
		if err := readTuple(dc, 5); err != nil {
			return nil, err
		}
		a := &apps[i]
		u, err := dc.ReadUint64()
		if err != nil {
			return nil, err
		}
		a.ID = ID(u)
		if u, err = dc.ReadUint64(); err != nil {
			return nil, err
		}
		a.Func = ID(u)
		if a.Outputs, err = readIDArray(dc); err != nil {
			return nil, err
		}
		if a.StreamArgs, err = readIDArray(dc); err != nil {
			return nil, err
		}
		if a.FuncArgs, err = readIDArray(dc); err != nil {
			return nil, err
		}
	}
	return apps, nil
}

func readLocals(dc *msgp.Reader) ([]Local, error) {
	n, err := dc.ReadArrayHeader()
	if err != nil {
		return nil, err
	}
	locals := make([]Local, n)
	for i := range locals {
		if err := readTuple(dc, 2); err != nil {
			return nil, err
		}
		u, err := dc.ReadUint64()
		if err != nil {
			return nil, err
		}
		locals[i].Func = ID(u)
		locals[i].Def = &Definition{}
		if err := locals[i].Def.DecodeMsg(dc); err != nil {
			return nil, err
		}
	}
	return locals, nil
}

package native

import (
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/influxdata/flowgraph"
)

// library is the file format of a native function library:
//
//	[[function]]
//	id = "0000000000001000"
//	name = "add"
//	stream-params = 2
//	outputs = [""]
type library struct {
	Functions []Def `toml:"function"`
}

// Load reads a TOML library and returns a registry holding its functions.
func Load(r io.Reader) (*Registry, error) {
	var lib library
	if _, err := toml.NewDecoder(r).Decode(&lib); err != nil {
		return nil, &flowgraph.Error{
			Code: flowgraph.EInvalid,
			Op:   "native.Load",
			Msg:  "malformed native library",
			Err:  err,
		}
	}
	return New(lib.Functions...)
}

// LoadFile is like Load but reads the library at path.
func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

package compiler_test

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/influxdata/flowgraph"
	"github.com/influxdata/flowgraph/compiler"
	"github.com/influxdata/flowgraph/mock"
	"github.com/influxdata/flowgraph/tree"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// randomProgram is a main function whose body holds size stream
// expressions. Every expression only references expressions created before
// it, and the body lists them in random order.
type randomProgram struct {
	main   *tree.TreeFunction
	consts int
	apps   int
}

func newRandomProgram(seed int64, size int) *randomProgram {
	rnd := rand.New(rand.NewSource(seed))
	b := newBuilder()
	p := &randomProgram{}

	var exprs []tree.StreamExpr
	ref := func() tree.StreamExpr {
		return b.Ref(exprs[rnd.Intn(len(exprs))])
	}
	for i := 0; i < size; i++ {
		kind := rnd.Intn(5)
		if len(exprs) == 0 {
			kind = 0
		}
		var e tree.StreamExpr
		switch kind {
		case 0:
			e = b.Number(rnd.Float64())
			p.consts++
		case 1:
			e = b.Text("t")
			p.consts++
		case 2:
			e = b.Apply(negID, ref())
			p.apps++
		case 3:
			e = b.Apply(addID, ref(), ref())
			p.apps++
		case 4:
			elems := make([]tree.StreamExpr, rnd.Intn(4))
			for j := range elems {
				elems[j] = ref()
			}
			e = b.Array(elems...)
			p.apps++
		}
		exprs = append(exprs, e)
	}

	body := make([]tree.BodyEntry, 0, len(exprs)+1)
	for _, i := range rnd.Perm(len(exprs)) {
		body = append(body, exprs[i])
	}
	body = append(body, tree.Yields(0, ref()))
	p.main = b.Function("main", 0, 0, 1, body...)
	return p
}

// withCycle adds a ring of n applications, each consuming the one before it.
func (p *randomProgram) withCycle(n int) *randomProgram {
	b := tree.NewBuilder(mock.NewSequentialIDGenerator(0x100000))
	ring := make([]*tree.Application, n)
	for i := range ring {
		ring[i] = b.Apply(negID)
	}
	for i, app := range ring {
		app.StreamArgs = []tree.StreamExpr{b.Ref(ring[(i+n-1)%n])}
		p.main.Body = append(p.main.Body, app)
	}
	return p
}

func TestProperty_AcyclicProgramsCompile(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)
	natives := testNatives(t)

	properties.Property("every expression is emitted exactly once in dependency order", prop.ForAll(
		func(seed int64, size int) bool {
			p := newRandomProgram(seed, size)
			def, err := compiler.Compile(p.main, natives)
			if err != nil {
				t.Log(err)
				return false
			}
			if err := def.Validate(); err != nil {
				t.Log(err)
				return false
			}
			return len(def.Consts) == p.consts && len(def.Apps) == p.apps
		},
		gen.Int64(),
		gen.IntRange(1, 40),
	))

	properties.Property("compiling the same tree twice gives the same definition", prop.ForAll(
		func(seed int64, size int) bool {
			p := newRandomProgram(seed, size)
			first, err := compiler.Compile(p.main, natives)
			if err != nil {
				return false
			}
			second, err := compiler.Compile(p.main, natives)
			if err != nil {
				return false
			}
			return cmp.Equal(first, second)
		},
		gen.Int64(),
		gen.IntRange(1, 40),
	))

	properties.TestingRun(t)
}

func TestProperty_CyclesAreRejected(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)
	natives := testNatives(t)

	properties.Property("a dependency ring fails with a cycle error", prop.ForAll(
		func(seed int64, size, ring int) bool {
			p := newRandomProgram(seed, size).withCycle(ring)
			def, err := compiler.Compile(p.main, natives)
			return def == nil && flowgraph.ErrorCode(err) == flowgraph.ECycle
		},
		gen.Int64(),
		gen.IntRange(1, 20),
		gen.IntRange(1, 8),
	))

	properties.TestingRun(t)
}

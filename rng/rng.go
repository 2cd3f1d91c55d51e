// Package rng implements the per-cube deterministic random number
// generator of spec.md §4.3: a mesh is partitioned into fixed-size
// cubes, each seeded solely from (baseseed, cube index), so that the
// value at any mesh cell depends only on its coordinates and never on
// access order. Allocation is lazy and callers free cubes once
// consumed. Cube fills are guarded by sharded mutexes, grounded on the
// per-unit locking the teacher repo uses in game/parallel.go; this
// package starts no goroutines of its own.
package rng

import (
	"math"
	"math/rand"
	"sync"

	"github.com/icgen/cosmicic/errs"
)

// DefaultCubeSize is the side length of one independent random cube,
// spec.md §4.3.
const DefaultCubeSize = 32

// cubeKey indexes a cube by its 3-D position modulo ncubes.
type cubeKey struct{ I, J, K int }

// Cube is one fixed-size block of unit-variance Gaussian draws.
type Cube struct {
	I, J, K int
	Data    []float64 // row-major, length Size^3
	Size    int
}

func (c *Cube) at(ii, jj, kk int) float64 {
	return c.Data[(ii*c.Size+jj)*c.Size+kk]
}

// LevelRNG owns the lazily-allocated cubes for one refinement level.
// Locking is sharded by cube key: a fixed-size array of mutexes picked
// by a hash of the key, so fills of unrelated cubes don't serialize on
// one global lock.
type LevelRNG struct {
	Res      int
	CubeSize int
	NCubes   int
	BaseSeed int64
	ZeroMean bool

	mapMu sync.Mutex
	cubes map[cubeKey]*Cube

	shardMu [64]sync.Mutex
}

// NewLevelRNG validates that res is a multiple of cubeSize (spec.md
// §3's LevelRNG invariant) and constructs an empty cube store.
func NewLevelRNG(res, cubeSize int, baseSeed int64, zeroMean bool) (*LevelRNG, error) {
	if cubeSize <= 0 {
		cubeSize = DefaultCubeSize
	}
	if res <= 0 || res%cubeSize != 0 {
		return nil, errs.New(errs.InvalidCosmology, "LevelRNG: resolution %d must be a positive multiple of cube size %d", res, cubeSize)
	}
	return &LevelRNG{
		Res:      res,
		CubeSize: cubeSize,
		NCubes:   res / cubeSize,
		BaseSeed: baseSeed,
		ZeroMean: zeroMean,
		cubes:    make(map[cubeKey]*Cube),
	}, nil
}

// mix derives a per-cube seed from (baseseed, ic, jc, kc). It is the
// fixed mixing function spec.md §4.3 requires: a SplitMix64-style
// avalanche applied to the cube coordinates folded into the base seed,
// so two distinct cube indices essentially never collide in seed
// space even for adjacent cubes.
func mix(baseseed int64, ic, jc, kc int) int64 {
	x := uint64(baseseed)
	x ^= uint64(int64(ic))*0x9E3779B97F4A7C15 + 0x1
	x = splitmix64(x)
	x ^= uint64(int64(jc))*0xBF58476D1CE4E5B9 + 0x2
	x = splitmix64(x)
	x ^= uint64(int64(kc))*0x94D049BB133111EB + 0x3
	x = splitmix64(x)
	return int64(x &^ (1 << 63)) // keep it a valid, non-negative math/rand seed
}

func splitmix64(x uint64) uint64 {
	x += 0x9E3779B97F4A7C15
	z := x
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	z = z ^ (z >> 31)
	return z
}

// shard picks one of the fixed mutex slots for a cube key.
func (l *LevelRNG) shard(key cubeKey) *sync.Mutex {
	h := uint64(key.I)*1000003 + uint64(key.J)*9176 + uint64(key.K)
	return &l.shardMu[h%uint64(len(l.shardMu))]
}

func (l *LevelRNG) wrap(i int) int {
	i %= l.NCubes
	if i < 0 {
		i += l.NCubes
	}
	return i
}

// cube returns the cube owning (ic, jc, kc), filling it on first
// access. Access order never affects the values because fillCube's
// seed depends only on (BaseSeed, ic, jc, kc).
func (l *LevelRNG) cube(ic, jc, kc int) *Cube {
	key := cubeKey{l.wrap(ic), l.wrap(jc), l.wrap(kc)}

	mu := l.shard(key)
	mu.Lock()
	defer mu.Unlock()

	l.mapMu.Lock()
	c, ok := l.cubes[key]
	l.mapMu.Unlock()
	if ok {
		return c
	}

	c = l.fillCube(key)

	l.mapMu.Lock()
	l.cubes[key] = c
	l.mapMu.Unlock()
	return c
}

// fillCube seeds an independent PRNG stream for the cube and fills it
// with unit-variance Gaussian draws via Box-Muller from paired
// uniforms, per spec.md §4.3. If ZeroMean is set the cube's own mean
// is subtracted afterward.
func (l *LevelRNG) fillCube(key cubeKey) *Cube {
	seed := mix(l.BaseSeed, key.I, key.J, key.K)
	src := rand.New(rand.NewSource(seed))

	n := l.CubeSize * l.CubeSize * l.CubeSize
	data := make([]float64, n)

	for i := 0; i+1 < n; i += 2 {
		u1 := src.Float64()
		u2 := src.Float64()
		if u1 <= 1e-300 {
			u1 = 1e-300
		}
		r := math.Sqrt(-2 * math.Log(u1))
		data[i] = r * math.Cos(2*math.Pi*u2)
		data[i+1] = r * math.Sin(2*math.Pi*u2)
	}
	if n%2 == 1 {
		u1 := src.Float64()
		u2 := src.Float64()
		if u1 <= 1e-300 {
			u1 = 1e-300
		}
		data[n-1] = math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	}

	if l.ZeroMean {
		var mean float64
		for _, v := range data {
			mean += v
		}
		mean /= float64(n)
		for i := range data {
			data[i] -= mean
		}
	}

	return &Cube{I: key.I, J: key.J, K: key.K, Data: data, Size: l.CubeSize}
}

// Get returns the white-noise value at global mesh index (i, j, k),
// lazily filling whichever cube owns it.
func (l *LevelRNG) Get(i, j, k int) float64 {
	ic, jc, kc := i/l.CubeSize, j/l.CubeSize, k/l.CubeSize
	ii, jj, kk := i%l.CubeSize, j%l.CubeSize, k%l.CubeSize
	c := l.cube(ic, jc, kc)
	return c.at(ii, jj, kk)
}

// FreeCube releases the storage for one cube, spec.md §4.3. A caller
// that walks cubes in order (as the composer in whitenoise does) keeps
// resident memory bounded to a small working set.
func (l *LevelRNG) FreeCube(ic, jc, kc int) {
	key := cubeKey{l.wrap(ic), l.wrap(jc), l.wrap(kc)}
	mu := l.shard(key)
	mu.Lock()
	defer mu.Unlock()

	l.mapMu.Lock()
	delete(l.cubes, key)
	l.mapMu.Unlock()
}

// NCubesAllocated reports how many cubes are currently resident, for
// diagnostics and tests.
func (l *LevelRNG) NCubesAllocated() int {
	l.mapMu.Lock()
	defer l.mapMu.Unlock()
	return len(l.cubes)
}

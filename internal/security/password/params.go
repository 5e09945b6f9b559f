package password

import "sync"

type Params struct {
	Memory      uint32 // kibibytes
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultParams is ~128MB, t=3.
func DefaultParams() Params {
	return Params{
		Memory:      131072,
		Iterations:  3,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}

var (
	mu     sync.RWMutex
	policy = DefaultParams()
)

// Configure replaces the hashing policy. Zero salt/key lengths keep their defaults.
func Configure(p Params) {
	d := DefaultParams()
	if p.SaltLength == 0 {
		p.SaltLength = d.SaltLength
	}
	if p.KeyLength == 0 {
		p.KeyLength = d.KeyLength
	}
	mu.Lock()
	policy = p
	mu.Unlock()
}

func current() Params {
	mu.RLock()
	defer mu.RUnlock()
	return policy
}

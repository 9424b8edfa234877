package params

import "testing"

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig() failed Validate: %v", err)
	}
	if cfg.Queries != DefaultQueries {
		t.Fatalf("Queries = %d, want %d", cfg.Queries, DefaultQueries)
	}
}

func TestConfigValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{"zero queries", &Config{Queries: 0, Verbosity: 0}},
		{"negative queries", &Config{Queries: -1, Verbosity: 0}},
		{"negative verbosity", &Config{Queries: 1, Verbosity: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); err == nil {
				t.Fatalf("Validate() on %+v: expected an error", tt.cfg)
			}
		})
	}
}

func TestConfigBuilderChaining(t *testing.T) {
	cfg := DefaultConfig().WithQueries(100).WithVerbosity(2)
	if cfg.Queries != 100 || cfg.Verbosity != 2 {
		t.Fatalf("builder chain produced %+v", cfg)
	}
}

func TestConfigCloneIsIndependent(t *testing.T) {
	cfg := DefaultConfig()
	clone := cfg.Clone()
	clone.WithQueries(999)
	if cfg.Queries == clone.Queries {
		t.Fatal("Clone shares state with the original Config")
	}
}

func TestIsPowerOfTwo(t *testing.T) {
	cases := map[int]bool{0: false, 1: true, 2: true, 3: false, 1024: true, 1023: false, -4: false}
	for n, want := range cases {
		if got := IsPowerOfTwo(n); got != want {
			t.Errorf("IsPowerOfTwo(%d) = %v, want %v", n, got, want)
		}
	}
}

func TestLog2(t *testing.T) {
	cases := map[int]int{1: 0, 2: 1, 1024: 10, 3: -1, 0: -1}
	for n, want := range cases {
		if got := Log2(n); got != want {
			t.Errorf("Log2(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestNextPowerOfTwo(t *testing.T) {
	cases := map[int]int{0: 1, 1: 1, 2: 2, 3: 4, 1000: 1024, 1024: 1024}
	for n, want := range cases {
		if got := NextPowerOfTwo(n); got != want {
			t.Errorf("NextPowerOfTwo(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestLog2CeilClampsToMinimum(t *testing.T) {
	if got := Log2Ceil(4, MinCyclesPo2); got != MinCyclesPo2 {
		t.Fatalf("Log2Ceil(4, %d) = %d, want %d", MinCyclesPo2, got, MinCyclesPo2)
	}
	n := 1 << (MinCyclesPo2 + 2)
	if got := Log2Ceil(n, MinCyclesPo2); got != MinCyclesPo2+2 {
		t.Fatalf("Log2Ceil(%d, %d) = %d, want %d", n, MinCyclesPo2, got, MinCyclesPo2+2)
	}
}

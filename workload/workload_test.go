package workload

import (
	mrand "math/rand"
	"testing"
)

func TestGenerateDeterministic(t *testing.T) {
	cfg := Config{
		Keys:         100,
		Operations:   500,
		Distribution: "uniform",
		ReadRatio:    0.5,
		DeleteRatio:  0.1,
	}

	ops1, sum1 := NewGenerator(cfg, mrand.New(mrand.NewSource(42))).Generate()
	ops2, sum2 := NewGenerator(cfg, mrand.New(mrand.NewSource(42))).Generate()

	if len(ops1) != len(ops2) {
		t.Fatalf("lengths differ: %d vs %d", len(ops1), len(ops2))
	}

	for i := range ops1 {
		if ops1[i] != ops2[i] {
			t.Fatalf("operation %d differs: %+v vs %+v", i, ops1[i], ops2[i])
		}
	}

	if sum1 != sum2 {
		t.Errorf("summaries differ: %+v vs %+v", sum1, sum2)
	}
}

func TestGenerateCounts(t *testing.T) {
	tests := []struct {
		name        string
		cfg         Config
		wantTotal   int
		wantGets    int
		wantPuts    int
		wantDeletes int
	}{
		{
			name: "reads only",
			cfg: Config{
				Keys:       10,
				Operations: 50,
				ReadRatio:  1,
			},
			wantTotal: 50,
			wantGets:  50,
		},
		{
			name: "writes only",
			cfg: Config{
				Keys:       10,
				Operations: 30,
			},
			wantTotal: 30,
			wantPuts:  30,
		},
		{
			name: "deletes only",
			cfg: Config{
				Keys:        10,
				Operations:  20,
				DeleteRatio: 1,
			},
			wantTotal:   20,
			wantDeletes: 20,
		},
		{
			name: "empty",
			cfg: Config{
				Keys:       10,
				Operations: 0,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops, sum := NewGenerator(tt.cfg, mrand.New(mrand.NewSource(1))).Generate()

			if len(ops) != tt.wantTotal || sum.TotalOperations != tt.wantTotal {
				t.Errorf("total: got %d (%d ops), want %d",
					sum.TotalOperations, len(ops), tt.wantTotal)
			}
			if sum.Gets != tt.wantGets {
				t.Errorf("gets: got %d, want %d", sum.Gets, tt.wantGets)
			}
			if sum.Puts != tt.wantPuts {
				t.Errorf("puts: got %d, want %d", sum.Puts, tt.wantPuts)
			}
			if sum.Deletes != tt.wantDeletes {
				t.Errorf("deletes: got %d, want %d", sum.Deletes, tt.wantDeletes)
			}
		})
	}
}

func TestDistributions(t *testing.T) {
	for _, dist := range []string{"power-law", "exponential", "uniform", ""} {
		t.Run(dist, func(t *testing.T) {
			cfg := Config{
				Keys:         1000,
				Operations:   5000,
				Distribution: dist,
				ReadRatio:    0.5,
			}

			ops, _ := NewGenerator(cfg, mrand.New(mrand.NewSource(42))).Generate()

			distinct := make(map[uint64]struct{})
			for _, op := range ops {
				if op.Key >= uint64(cfg.Keys) {
					t.Fatalf("key %d out of range", op.Key)
				}
				distinct[op.Key] = struct{}{}
			}

			if len(distinct) < 2 {
				t.Errorf("expected more than one distinct key, got %d", len(distinct))
			}
		})
	}
}

func TestPowerLawIsSkewed(t *testing.T) {
	cfg := Config{Keys: 1000, Operations: 10000, Distribution: "power-law"}

	ops, _ := NewGenerator(cfg, mrand.New(mrand.NewSource(7))).Generate()

	low := 0
	for _, op := range ops {
		if op.Key < 10 {
			low++
		}
	}

	// A uniform draw would put about 1% of keys below 10.
	if low < len(ops)/2 {
		t.Errorf("power-law: %d of %d keys below 10, want a majority", low, len(ops))
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Keys: 1, Operations: 1, ReadRatio: 0.5, DeleteRatio: 0.5}, false},
		{"no keys", Config{Keys: 0, Operations: 1}, true},
		{"negative ops", Config{Keys: 1, Operations: -1}, true},
		{"ratio above one", Config{Keys: 1, ReadRatio: 1.5}, true},
		{"ratios sum above one", Config{Keys: 1, ReadRatio: 0.7, DeleteRatio: 0.4}, true},
		{"unknown distribution", Config{Keys: 1, Distribution: "zipf"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOpString(t *testing.T) {
	if Get.String() != "get" || Put.String() != "put" || Delete.String() != "delete" {
		t.Error("unexpected op names")
	}
}

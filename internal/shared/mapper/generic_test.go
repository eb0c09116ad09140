package mapper

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

type testRow struct {
	ID    uint
	Value int
}

type testEntity struct {
	Result string
}

func TestMapSliceWithError(t *testing.T) {
	tests := []struct {
		name        string
		input       []int
		mapFunc     func(int) (string, error)
		want        []string
		wantErr     bool
		errContains string
	}{
		{
			name:    "nil input returns nil",
			input:   nil,
			mapFunc: func(i int) (string, error) { return fmt.Sprintf("%d", i), nil },
			want:    nil,
			wantErr: false,
		},
		{
			name:    "empty slice returns empty slice",
			input:   []int{},
			mapFunc: func(i int) (string, error) { return fmt.Sprintf("%d", i), nil },
			want:    []string{},
			wantErr: false,
		},
		{
			name:    "successful mapping",
			input:   []int{1, 2, 3},
			mapFunc: func(i int) (string, error) { return fmt.Sprintf("num_%d", i), nil },
			want:    []string{"num_1", "num_2", "num_3"},
			wantErr: false,
		},
		{
			name:  "middle element returns error",
			input: []int{1, 2, 3, 4, 5},
			mapFunc: func(i int) (string, error) {
				if i == 3 {
					return "", errors.New("error at element 3")
				}
				return fmt.Sprintf("num_%d", i), nil
			},
			want:        nil,
			wantErr:     true,
			errContains: "error at element 3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MapSliceWithError(tt.input, tt.mapFunc)

			if tt.wantErr {
				if err == nil {
					t.Errorf("MapSliceWithError() expected error, got nil")
					return
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("MapSliceWithError() error = %v, want error containing %v", err, tt.errContains)
				}
				return
			}

			if err != nil {
				t.Errorf("MapSliceWithError() unexpected error: %v", err)
				return
			}

			if tt.input == nil {
				if got != nil {
					t.Errorf("MapSliceWithError() = %v, want nil", got)
				}
				return
			}

			if len(got) != len(tt.want) {
				t.Errorf("MapSliceWithError() length = %d, want %d", len(got), len(tt.want))
				return
			}

			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("MapSliceWithError()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestMapSlicePtrWithID(t *testing.T) {
	getID := func(r *testRow) uint { return r.ID }

	t.Run("nil input returns nil", func(t *testing.T) {
		got, err := MapSlicePtrWithID(nil, func(r *testRow) (*testEntity, error) {
			return &testEntity{Result: fmt.Sprintf("%d", r.Value)}, nil
		}, getID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != nil {
			t.Errorf("MapSlicePtrWithID() = %v, want nil", got)
		}
	})

	t.Run("nil elements are skipped", func(t *testing.T) {
		input := []*testRow{{ID: 1, Value: 1}, nil, {ID: 3, Value: 3}}
		got, err := MapSlicePtrWithID(input, func(r *testRow) (*testEntity, error) {
			return &testEntity{Result: fmt.Sprintf("v%d", r.Value)}, nil
		}, getID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("MapSlicePtrWithID() length = %d, want 2", len(got))
		}
		if got[0].Result != "v1" || got[1].Result != "v3" {
			t.Errorf("MapSlicePtrWithID() = [%s, %s], want [v1, v3]", got[0].Result, got[1].Result)
		}
	})

	t.Run("nil outputs are skipped", func(t *testing.T) {
		input := []*testRow{{ID: 1, Value: 1}, {ID: 2, Value: 2}}
		got, err := MapSlicePtrWithID(input, func(r *testRow) (*testEntity, error) {
			if r.Value == 2 {
				return nil, nil
			}
			return &testEntity{Result: fmt.Sprintf("v%d", r.Value)}, nil
		}, getID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("MapSlicePtrWithID() length = %d, want 1", len(got))
		}
	})

	t.Run("error names the failing ID", func(t *testing.T) {
		input := []*testRow{{ID: 1, Value: 1}, {ID: 42, Value: -1}}
		_, err := MapSlicePtrWithID(input, func(r *testRow) (*testEntity, error) {
			if r.Value < 0 {
				return nil, errors.New("negative value")
			}
			return &testEntity{Result: fmt.Sprintf("v%d", r.Value)}, nil
		}, getID)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !strings.Contains(err.Error(), "42") {
			t.Errorf("error %q does not name the failing ID", err.Error())
		}
		if !strings.Contains(err.Error(), "negative value") {
			t.Errorf("error %q does not wrap the cause", err.Error())
		}
	})
}

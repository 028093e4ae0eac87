package rangetree

import (
	"testing"
)

func TestIsPow2(t *testing.T) {
	type args struct {
		n uint64
	}
	tests := []struct {
		name string
		args args
		want bool
	}{
		{"16 is a power of two", args{16}, true},
		{"zero is not a power of two", args{0}, false},
		{"1 is a power of two", args{1}, true},
		{"17 is not a power of two (first bit is set, edge case)", args{17}, false},
		{"2^63 is a power of two", args{1 << 63}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPow2(tt.args.n); got != tt.want {
				t.Errorf("IsPow2() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFillCount(t *testing.T) {
	tests := []struct {
		name      string
		leafCount uint64
		want      uint64
		wantErr   error
	}{
		{"one leaf needs no fill", 1, 0, nil},
		{"five leaves pad to eight", 5, 3, nil},
		{"twelve leaves pad to sixteen", 12, 4, nil},
		{"just past a large power", 1<<40 + 1, 1<<40 - 1, nil},
		{"2^63 is already padded", 1 << 63, 0, nil},
		{"zero leaves is degenerate", 0, 0, ErrNoLeaves},
		{"past 2^63 can not be padded", 1<<63 + 1, 0, ErrLeafCountOverflow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FillCount(tt.leafCount)
			if err != tt.wantErr {
				t.Fatalf("FillCount() err = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("FillCount() = %v, want %v", got, tt.want)
			}
		})
	}
}

package rebase

import "testing"

func Test_CRC64(t *testing.T) {
	type args struct {
		seq string
	}
	tests := []struct {
		name string
		args args
		want uint64
	}{
		{
			"empty sequence",
			args{""},
			0,
		},
		{
			// reference value from the Swiss-Prot user manual
			"reference vector",
			args{"IHATEMATH"},
			0xE3DCADD69B01ADD1,
		},
		{
			"lowercase input digests like uppercase",
			args{"ihatemath"},
			0xE3DCADD69B01ADD1,
		},
		{
			"mixed case input digests like uppercase",
			args{"IhAtEmAtH"},
			0xE3DCADD69B01ADD1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CRC64(tt.args.seq); got != tt.want {
				t.Errorf("CRC64() = %016X, want %016X", got, tt.want)
			}
		})
	}
}

func Test_CRC64_sensitivity(t *testing.T) {
	seq := "MAAALSDFGHKLQWERTYIPCVNM"
	base := CRC64(seq)

	if got := CRC64(seq[:len(seq)-1] + "A"); got == base {
		t.Errorf("CRC64() unchanged after residue substitution: %016X", got)
	}

	if got := CRC64(seq[1:]); got == base {
		t.Errorf("CRC64() unchanged after residue removal: %016X", got)
	}
}

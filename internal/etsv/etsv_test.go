package etsv

import (
	"bytes"
	"io"
	"reflect"
	"strings"
	"testing"
)

func Test_Reader(t *testing.T) {
	type args struct {
		input  string
		fields []Field
	}
	tests := []struct {
		name    string
		args    args
		want    []map[string]string
		wantErr bool
	}{
		{
			"binds columns by title",
			args{
				"#:Name\tType\tExtra\nEcoRI\tR\tx\nM.EcoKI\tM\ty\n",
				[]Field{{"name", "Name"}, {"type", "Type"}},
			},
			[]map[string]string{
				{"name": "EcoRI", "type": "R"},
				{"name": "M.EcoKI", "type": "M"},
			},
			false,
		},
		{
			"column order does not matter",
			args{
				"#:Type\tName\nR\tEcoRI\n",
				[]Field{{"name", "Name"}, {"type", "Type"}},
			},
			[]map[string]string{
				{"name": "EcoRI", "type": "R"},
			},
			false,
		},
		{
			"nil fields bind every column",
			args{
				"#:Name\tType\nEcoRI\tR\n",
				nil,
			},
			[]map[string]string{
				{"Name": "EcoRI", "Type": "R"},
			},
			false,
		},
		{
			"empty values survive",
			args{
				"#:Name\tType\nEcoRI\t\n",
				nil,
			},
			[]map[string]string{
				{"Name": "EcoRI", "Type": ""},
			},
			false,
		},
		{
			"header only",
			args{
				"#:Name\tType\n",
				nil,
			},
			nil,
			false,
		},
		{
			"unknown title",
			args{
				"#:Name\nEcoRI\n",
				[]Field{{"type", "Type"}},
			},
			nil,
			true,
		},
		{
			"missing header mark",
			args{
				"Name\tType\nEcoRI\tR\n",
				nil,
			},
			nil,
			true,
		},
		{
			"empty input",
			args{
				"",
				nil,
			},
			nil,
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewReader(strings.NewReader(tt.args.input), tt.args.fields)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewReader() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}

			var got []map[string]string
			for {
				entry, err := r.Read()
				if err == io.EOF {
					break
				}
				if err != nil {
					t.Fatalf("Read() error = %v", err)
				}
				got = append(got, entry)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Read() entries = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_Reader_shortLine(t *testing.T) {
	r, err := NewReader(strings.NewReader("#:Name\tType\nEcoRI\n"), nil)
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}
	if _, err = r.Read(); err == nil {
		t.Error("Read() expected an error for a short line")
	}
}

func Test_Reader_Titles(t *testing.T) {
	r, err := NewReader(strings.NewReader("#:Name\tType\tExtra\n"), nil)
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}
	want := []string{"Name", "Type", "Extra"}
	if got := r.Titles(); !reflect.DeepEqual(got, want) {
		t.Errorf("Titles() = %v, want %v", got, want)
	}
}

func Test_Writer(t *testing.T) {
	fields := []Field{{"name", "Name"}, {"type", "Type"}}

	var buf bytes.Buffer
	w := NewWriter(&buf, fields)
	entries := []map[string]string{
		{"name": "EcoRI", "type": "R"},
		{"name": "M.EcoKI"},
	}
	for _, entry := range entries {
		if err := w.Write(entry); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	want := "#:Name\tType\nEcoRI\tR\nM.EcoKI\t\n"
	if got := buf.String(); got != want {
		t.Errorf("Writer output = %q, want %q", got, want)
	}
}

func Test_roundTrip(t *testing.T) {
	fields := []Field{{"name", "Name"}, {"type", "Type"}}

	var buf bytes.Buffer
	w := NewWriter(&buf, fields)
	if err := w.Write(map[string]string{"name": "EcoRI", "type": "R"}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	r, err := NewReader(&buf, fields)
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}
	entry, err := r.Read()
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	want := map[string]string{"name": "EcoRI", "type": "R"}
	if !reflect.DeepEqual(entry, want) {
		t.Errorf("Read() = %v, want %v", entry, want)
	}
	if _, err = r.Read(); err != io.EOF {
		t.Errorf("Read() after last entry error = %v, want io.EOF", err)
	}
}

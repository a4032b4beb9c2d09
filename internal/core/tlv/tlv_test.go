package tlv

import "testing"

func TestEncodeUnit(t *testing.T) {
	tests := []struct {
		name     string
		tag      string
		value    string
		expected string
		wantErr  bool
	}{
		{
			name:     "simple value",
			tag:      "00",
			value:    "01",
			expected: "000201",
		},
		{
			name:     "empty value",
			tag:      "62",
			value:    "",
			expected: "6200",
		},
		{
			name:     "length is zero padded",
			tag:      "59",
			value:    "John Doe",
			expected: "5908John Doe",
		},
		{
			name:    "value over 99 characters",
			tag:     "59",
			value:   string(make([]byte, 100)),
			wantErr: true,
		},
		{
			name:    "non numeric tag",
			tag:     "AB",
			value:   "x",
			wantErr: true,
		},
		{
			name:    "tag too long",
			tag:     "001",
			value:   "x",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodeUnit(tt.tag, tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestDecodeUnit(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		offset   int
		wantOk   bool
		wantUnit Unit
		wantNext int
	}{
		{
			name:     "valid unit",
			data:     "000201",
			offset:   0,
			wantOk:   true,
			wantUnit: Unit{Tag: "00", Length: 2, Value: "01"},
			wantNext: 6,
		},
		{
			name:   "empty input",
			data:   "",
			offset: 0,
			wantOk: false,
		},
		{
			name:   "single character",
			data:   "0",
			offset: 0,
			wantOk: false,
		},
		{
			name:   "header only no value space",
			data:   "5904Jo",
			offset: 0,
			wantOk: false,
		},
		{
			name:   "length claims more than remains",
			data:   "0099short",
			offset: 0,
			wantOk: false,
		},
		{
			name:   "non numeric length",
			data:   "00XXvalue",
			offset: 0,
			wantOk: false,
		},
		{
			name:   "non numeric tag",
			data:   "ZZ02hi",
			offset: 0,
			wantOk: false,
		},
		{
			name:     "zero length value",
			data:     "6200",
			offset:   0,
			wantOk:   true,
			wantUnit: Unit{Tag: "62", Length: 0, Value: ""},
			wantNext: 4,
		},
		{
			name:     "offset into middle",
			data:     "000201" + "5303516",
			offset:   6,
			wantOk:   true,
			wantUnit: Unit{Tag: "53", Length: 3, Value: "516"},
			wantNext: 13,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit, next, ok := DecodeUnit(tt.data, tt.offset)
			if ok != tt.wantOk {
				t.Fatalf("expected ok=%v, got %v (unit=%+v)", tt.wantOk, ok, unit)
			}
			if !ok {
				return
			}
			if unit != tt.wantUnit {
				t.Errorf("expected unit %+v, got %+v", tt.wantUnit, unit)
			}
			if next != tt.wantNext {
				t.Errorf("expected next offset %d, got %d", tt.wantNext, next)
			}
		})
	}
}

func TestDecodeUnitNeverPanics(t *testing.T) {
	inputs := []string{"", "0", "00", "009", "0099", "630", "99", "6304ABC"}
	for _, in := range inputs {
		for offset := -1; offset <= len(in)+1; offset++ {
			// Must return gracefully for every offset, including out-of-range ones.
			_, _, _ = DecodeUnit(in, offset)
		}
	}
}

func TestDecodeAll(t *testing.T) {
	t.Run("multiple units", func(t *testing.T) {
		units := DecodeAll("000201" + "010211" + "5802NA")
		if len(units) != 3 {
			t.Fatalf("expected 3 units, got %d", len(units))
		}
		if units[0].Tag != "00" || units[1].Tag != "01" || units[2].Tag != "58" {
			t.Errorf("unexpected tags: %+v", units)
		}
	})

	t.Run("stops at trailing garbage", func(t *testing.T) {
		units := DecodeAll("000201" + "xx")
		if len(units) != 1 {
			t.Fatalf("expected 1 unit, got %d", len(units))
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if units := DecodeAll(""); len(units) != 0 {
			t.Errorf("expected no units, got %+v", units)
		}
	})
}

func TestDecodeNested(t *testing.T) {
	inner := "0003ipp" + "011726481234567@buffr"
	m := DecodeNested(inner)
	if m["00"] != "ipp" {
		t.Errorf("expected sub-tag 00 = ipp, got %q", m["00"])
	}
	if m["01"] != "26481234567@buffr" {
		t.Errorf("unexpected sub-tag 01: %q", m["01"])
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	encoded, err := EncodeUnit("26", "0003ipp")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	unit, next, ok := DecodeUnit(encoded, 0)
	if !ok {
		t.Fatal("expected decode to succeed")
	}
	if next != len(encoded) {
		t.Errorf("expected next offset %d, got %d", len(encoded), next)
	}
	if unit.Tag != "26" || unit.Value != "0003ipp" || unit.Length != 7 {
		t.Errorf("unexpected unit: %+v", unit)
	}
}

func TestDecodeAllWithRest(t *testing.T) {
	t.Run("well-formed input consumes everything", func(t *testing.T) {
		units, rest := DecodeAllWithRest("000201" + "010211" + "5802NA")
		if len(units) != 3 {
			t.Fatalf("expected 3 units, got %d", len(units))
		}
		if rest != 14 {
			t.Errorf("expected rest offset 14, got %d", rest)
		}
	})

	t.Run("reports the offset of an undecodable region", func(t *testing.T) {
		units, rest := DecodeAllWithRest("000201" + "Z!garbage" + "5802NA")
		if len(units) != 1 {
			t.Fatalf("expected 1 unit, got %d", len(units))
		}
		if rest != 6 {
			t.Errorf("expected rest offset 6, got %d", rest)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		units, rest := DecodeAllWithRest("")
		if len(units) != 0 || rest != 0 {
			t.Errorf("expected no units and offset 0, got %+v at %d", units, rest)
		}
	})
}

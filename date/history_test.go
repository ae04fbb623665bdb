package date

import "testing"

func TestAppend(t *testing.T) {
	h := new(History[string])
	d1, v1 := New(2025, 07, 01), "25 Jul 1"
	d2, v2 := New(2024, 07, 01), "24 Jul 1"

	// Test is about appending two values in reverse order and checking that everything is
	// as expected at every step of the way.

	if h.Len() != 0 {
		t.Errorf("History.Len() = %v want 0", h.Len())
	}

	h.Append(d1, v1)
	if h.Len() != 1 {
		t.Errorf("Append(d1, v1).Len() = %v want 1", h.Len())
	}

	h.Append(d2, v2)
	if h.Len() != 2 {
		t.Errorf("Append(d2, v2).Len() = %v want 2", h.Len())
	}

	if h.days[1] != d1 {
		t.Errorf("history[1].day = %v want %v", h.days[0], d1)
	}
	if h.days[0] != d2 {
		t.Errorf("history[0].day = %v want %v", h.days[1], d2)
	}
	if h.values[1] != v1 {
		t.Errorf("history[1].value = %v want %v", h.values[0], v1)
	}
	if h.values[0] != v2 {
		t.Errorf("history[0].value = %v want %v", h.values[1], v2)
	}

}

func TestValueAsOf(t *testing.T) {
	h := new(History[float64])
	h.Append(New(2025, 1, 10), 1).Append(New(2025, 1, 20), 2).Append(New(2025, 1, 5), 0.5)

	testCases := []struct {
		name   string
		on     Date
		want   float64
		wantOK bool
	}{
		{"before first", New(2025, 1, 1), 0, false},
		{"exact first", New(2025, 1, 5), 0.5, true},
		{"between", New(2025, 1, 15), 1, true},
		{"after last", New(2025, 2, 1), 2, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := h.ValueAsOf(tc.on)
			if got != tc.want || ok != tc.wantOK {
				t.Errorf("ValueAsOf(%v) = %v, %v, want %v, %v", tc.on, got, ok, tc.want, tc.wantOK)
			}
		})
	}
}

func TestCursor(t *testing.T) {
	h := new(History[float64])
	for i := 1; i <= 10; i++ {
		h.Append(New(2025, 3, 2*i), float64(i))
	}
	c := h.Cursor()

	// Any sequence of queries, including backward ones, must agree with ValueAsOf.
	queries := []Date{
		New(2025, 3, 1), New(2025, 3, 2), New(2025, 3, 3), New(2025, 3, 11),
		New(2025, 3, 4), New(2025, 3, 20), New(2025, 3, 21), New(2025, 4, 1), New(2025, 3, 1),
	}
	for _, q := range queries {
		got, gotOK := c.AsOf(q)
		want, wantOK := h.ValueAsOf(q)
		if got != want || gotOK != wantOK {
			t.Errorf("Cursor.AsOf(%v) = %v, %v, want %v, %v", q, got, gotOK, want, wantOK)
		}
	}
}

func TestHistoryJSON(t *testing.T) {
	var h History[float64]
	if err := h.UnmarshalJSON([]byte(`{"2025-01-03": 3, "2025-01-01": 1}`)); err != nil {
		t.Fatalf("UnmarshalJSON() unexpected error: %v", err)
	}
	if day, v := h.First(); day != New(2025, 1, 1) || v != 1 {
		t.Errorf("First() = %v, %v, want 2025-01-01, 1", day, v)
	}
	data, err := h.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() unexpected error: %v", err)
	}
	if got, want := string(data), `{"2025-01-01":1,"2025-01-03":3}`; got != want {
		t.Errorf("MarshalJSON() = %s, want %s", got, want)
	}
}

package sheets

import (
	"errors"
	"testing"
)

func TestTabRange(t *testing.T) {
	tests := []struct {
		tab  Tab
		want string
	}{
		{tab: PurchasesTab, want: "Purchases!A:E"},
		{tab: CollectionsTab, want: "Eggs!A:I"},
		{tab: Tab{Title: "Wide", Columns: 26}, want: "Wide!A:Z"},
		{tab: Tab{Title: "Wider", Columns: 27}, want: "Wider!A:AA"},
		{tab: Tab{Title: "Widest", Columns: 53}, want: "Widest!A:BA"},
	}

	for _, tt := range tests {
		if got := tt.tab.Range(); got != tt.want {
			t.Errorf("%+v.Range() = %s, want %s", tt.tab, got, tt.want)
		}
	}
}

func TestRowPayload(t *testing.T) {
	payload, err := rowPayload(PurchasesTab, []interface{}{"2024-03-01", "Misc", 0.0, 4.5, "2024-03-01 18:00:00"})
	if err != nil {
		t.Fatalf("rowPayload() error = %v", err)
	}
	if payload.Range != "Purchases!A:E" || payload.MajorDimension != "ROWS" || len(payload.Values) != 1 {
		t.Errorf("payload = %+v", payload)
	}

	if _, err := rowPayload(PurchasesTab, []interface{}{"2024-03-01"}); !errors.Is(err, ErrRowWidth) {
		t.Errorf("short row error = %v, want ErrRowWidth", err)
	}
	if _, err := rowPayload(Tab{}, nil); err == nil {
		t.Error("rowPayload() accepted an empty tab")
	}
}

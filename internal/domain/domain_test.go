package domain

import (
	"encoding/json"
	"testing"
)

func TestFlexIntAcceptsNumbersAndStrings(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{`450`, 450},
		{`"450"`, 450},
		{`" 12 "`, 12},
		{`449.6`, 450},
		{`null`, 0},
	}
	for _, tc := range cases {
		var n FlexInt
		if err := json.Unmarshal([]byte(tc.in), &n); err != nil {
			t.Fatalf("%s: %v", tc.in, err)
		}
		if n.Int() != tc.want {
			t.Fatalf("%s: got %d, want %d", tc.in, n, tc.want)
		}
	}

	var n FlexInt
	if err := json.Unmarshal([]byte(`"lots"`), &n); err == nil {
		t.Fatal("expected an error for non-numeric text")
	}
}

func TestFlexStringAcceptsNumbers(t *testing.T) {
	var s struct {
		Sets FlexString `json:"sets"`
		Reps FlexString `json:"reps"`
		None FlexString `json:"none"`
	}
	if err := json.Unmarshal([]byte(`{"sets":3,"reps":"8-12","none":null}`), &s); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if s.Sets != "3" || s.Reps != "8-12" || s.None != "" {
		t.Fatalf("unexpected values %+v", s)
	}
}

func TestExerciseEntryPreservesShape(t *testing.T) {
	var entries []ExerciseEntry
	in := `["Jumping jacks",{"name":"Squat","sets":"3","reps":"10","notes":"slow"}]`
	if err := json.Unmarshal([]byte(in), &entries); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if entries[0].Kind != ExerciseSimple || entries[0].Name() != "Jumping jacks" {
		t.Fatalf("unexpected first entry %+v", entries[0])
	}
	if entries[1].Kind != ExerciseDetailed || entries[1].Name() != "Squat" || entries[1].Detail.Notes != "slow" {
		t.Fatalf("unexpected second entry %+v", entries[1])
	}

	out, err := json.Marshal(entries)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(out) != in {
		t.Fatalf("shape changed:\n got %s\nwant %s", out, in)
	}
}

func TestExerciseEntryRejectsOtherShapes(t *testing.T) {
	for _, in := range []string{`42`, `["a"]`, `true`} {
		var e ExerciseEntry
		if err := json.Unmarshal([]byte(in), &e); err == nil {
			t.Fatalf("expected error for %s", in)
		}
	}
}

func TestProfileSummary(t *testing.T) {
	p := UserProfile{
		Goals:              []string{"Weight Loss"},
		DietaryPreferences: []string{"Vegan"},
		CuisinePreferences: []string{"Thai"},
	}
	data, err := json.Marshal(p.Summary(1800))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"goals":["Weight Loss"],"dietary_preferences":["Vegan"],"cuisine_preferences":["Thai"],"calories":1800}`
	if string(data) != want {
		t.Fatalf("got %s, want %s", data, want)
	}
}

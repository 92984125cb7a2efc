package sanitizer

import (
	"hashgate/pkg/model"
	"reflect"
	"testing"
)

func TestDedupe(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "keeps first occurrence order",
			input: []string{"h2", "h1", "h2", "h3", "h1"},
			want:  []string{"h2", "h1", "h3"},
		},
		{
			name:  "case sensitive",
			input: []string{"ab", "AB"},
			want:  []string{"ab", "AB"},
		},
		{
			name:  "empty input",
			input: []string{},
			want:  []string{},
		},
		{
			name:  "nil input",
			input: nil,
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Dedupe(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Dedupe(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestAppend(t *testing.T) {
	tests := []struct {
		name     string
		existing model.Value
		incoming model.Value
		want     model.Value
	}{
		{
			name:     "duplicate scalars collapse",
			existing: model.Scalar("h1"),
			incoming: model.Scalar("h1"),
			want:     model.Scalar("h1"),
		},
		{
			name:     "distinct scalars become sequence, existing first",
			existing: model.Scalar("h1"),
			incoming: model.Scalar("h2"),
			want:     model.Sequence("h1", "h2"),
		},
		{
			name:     "absent existing returns incoming",
			existing: model.Absent(),
			incoming: model.Scalar("h1"),
			want:     model.Scalar("h1"),
		},
		{
			name:     "absent incoming returns existing",
			existing: model.Scalar("h1"),
			incoming: model.Absent(),
			want:     model.Scalar("h1"),
		},
		{
			name:     "absent existing keeps incoming shape",
			existing: model.Absent(),
			incoming: model.Sequence("h1"),
			want:     model.Sequence("h1"),
		},
		{
			name:     "sequence and scalar merge without duplicates",
			existing: model.Sequence("h1", "h2"),
			incoming: model.Scalar("h2"),
			want:     model.Sequence("h1", "h2"),
		},
		{
			name:     "sequences merge in order",
			existing: model.Sequence("h3", "h1"),
			incoming: model.Sequence("h1", "h2", "h3"),
			want:     model.Sequence("h3", "h1", "h2"),
		},
		{
			name:     "single element sequences collapse to scalar",
			existing: model.Sequence("h1"),
			incoming: model.Sequence("h1"),
			want:     model.Scalar("h1"),
		},
		{
			name:     "empty string counts as absent",
			existing: model.Scalar(""),
			incoming: model.Scalar("h1"),
			want:     model.Scalar("h1"),
		},
		{
			name:     "both absent",
			existing: model.Absent(),
			incoming: model.Absent(),
			want:     model.Absent(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Append(tt.existing, tt.incoming)
			if !got.Equal(tt.want) {
				t.Errorf("Append(%v, %v) = %v, want %v", tt.existing, tt.incoming, got, tt.want)
			}
		})
	}
}

func TestAppend_Idempotent(t *testing.T) {
	existing := model.Sequence("h1", "h2")
	incoming := model.Scalar("h3")

	once := Append(existing, incoming)
	twice := Append(once, incoming)
	if !once.Equal(twice) {
		t.Errorf("Append not idempotent: %v then %v", once, twice)
	}
}

func TestMap_DoesNotAliasInput(t *testing.T) {
	input := model.Sequence("A@example.com")
	_ = NormalizeEmail(input)

	if got := input.Items()[0]; got != "A@example.com" {
		t.Errorf("input modified: got %q", got)
	}
}

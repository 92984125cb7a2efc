package service

import (
	"encoding/json"
	"hashgate/pkg/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	digestAB       = "fb98d44ad7501a959f3f4f4a3f004fe2d9e581ea6207e218c4b02c08a4d75adf" // a@b.com
	digestCD       = "d10560d176b4c74051325d1fb4255ecf0086a685cc8658acafe2520e6e8fd170" // c@d.com
	digestJohnDoe  = "06a240d11cc201676da976f7b49341181fd180da37cbe40a77432c0a366c80c3" // johndoe@gmail.com
	digestPhone    = "8a59780bb8cd2ba022bfa5ba2ea3b6e07af17a7d8b30c1f9b3390e36f69019e4" // +15551234567
	digestRawValue = "615e15ed2361daed57bba6516779853263b12581fcb19c29fdabeae88321711c" // raw-value
)

func decode(t *testing.T, data string) *model.UserData {
	t.Helper()
	var ud model.UserData
	require.NoError(t, json.Unmarshal([]byte(data), &ud))
	return &ud
}

func encode(t *testing.T, ud *model.UserData) string {
	t.Helper()
	out, err := json.Marshal(ud)
	require.NoError(t, err)
	return string(out)
}

func TestNormalize_Nil(t *testing.T) {
	assert.Nil(t, Normalize(nil, true))
	assert.Nil(t, Normalize(nil, false))
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		hash bool
		want string
	}{
		{
			name: "hash email",
			in:   `{"email":"a@b.com"}`,
			hash: true,
			want: `{"sha256_email_address":"` + digestAB + `"}`,
		},
		{
			name: "gmail canonicalized before hashing",
			in:   `{"email":"  John.Doe+promo@GMAIL.com "}`,
			hash: true,
			want: `{"sha256_email_address":"` + digestJohnDoe + `"}`,
		},
		{
			name: "normalize only",
			in:   `{"email":"  John.Doe+promo@GMAIL.com ","phone_number":"+1 (555) 123-4567"}`,
			hash: false,
			want: `{"email":"johndoe@gmail.com","phone_number":"+15551234567"}`,
		},
		{
			name: "hash phone",
			in:   `{"phone_number":"+1 (555) 123-4567"}`,
			hash: true,
			want: `{"sha256_phone_number":"` + digestPhone + `"}`,
		},
		{
			name: "existing digest deduplicated",
			in:   `{"email":"a@b.com","sha256_email_address":"` + digestAB + `"}`,
			hash: true,
			want: `{"sha256_email_address":"` + digestAB + `"}`,
		},
		{
			name: "existing digest kept first",
			in:   `{"email":"c@d.com","sha256_email_address":"` + digestAB + `"}`,
			hash: true,
			want: `{"sha256_email_address":["` + digestAB + `","` + digestCD + `"]}`,
		},
		{
			name: "existing raw hashed value is hashed",
			in:   `{"sha256_phone_number":"raw-value"}`,
			hash: true,
			want: `{"sha256_phone_number":"` + digestRawValue + `"}`,
		},
		{
			name: "hashed fields untouched without hashing",
			in:   `{"sha256_phone_number":"raw-value","sha256_email_address":"` + digestAB + `"}`,
			hash: false,
			want: `{"sha256_phone_number":"raw-value","sha256_email_address":"` + digestAB + `"}`,
		},
		{
			name: "sequence email normalized element wise",
			in:   `{"email":[" A@B.com","c@D.com"]}`,
			hash: false,
			want: `{"email":["a@b.com","c@d.com"]}`,
		},
		{
			name: "sequence email hashed element wise",
			in:   `{"email":["a@b.com","c@d.com","A@b.com"]}`,
			hash: true,
			want: `{"sha256_email_address":["` + digestAB + `","` + digestCD + `","` + digestAB + `"]}`,
		},
		{
			name: "sequence merged into existing digests without duplicates",
			in:   `{"email":["a@b.com","c@d.com","A@b.com"],"sha256_email_address":"` + digestCD + `"}`,
			hash: true,
			want: `{"sha256_email_address":["` + digestCD + `","` + digestAB + `"]}`,
		},
		{
			name: "opaque fields pass through",
			in:   `{"email":"a@b.com","address":{"city":"Lisbon"},"first_name":"Ana"}`,
			hash: true,
			want: `{"sha256_email_address":"` + digestAB + `","address":{"city":"Lisbon"},"first_name":"Ana"}`,
		},
		{
			name: "empty raw fields dropped when hashing",
			in:   `{"email":"","phone_number":"undefined"}`,
			hash: true,
			want: `{}`,
		},
		{
			name: "empty raw fields kept without hashing",
			in:   `{"email":"","phone_number":"undefined"}`,
			hash: false,
			want: `{"email":"","phone_number":"undefined"}`,
		},
		{
			name: "undefined sequence element never reaches the digest field",
			in:   `{"email":["undefined","A@B.com"]}`,
			hash: true,
			want: `{"sha256_email_address":["` + digestAB + `"]}`,
		},
		{
			name: "undefined element dropped from existing digests",
			in:   `{"sha256_email_address":["undefined","` + digestAB + `"]}`,
			hash: true,
			want: `{"sha256_email_address":["` + digestAB + `"]}`,
		},
		{
			name: "non string digest left as received without hashing",
			in:   `{"sha256_email_address":123,"sha256_phone_number":[1,"` + digestAB + `"]}`,
			hash: false,
			want: `{"sha256_email_address":123,"sha256_phone_number":[1,"` + digestAB + `"]}`,
		},
		{
			name: "empty record",
			in:   `{}`,
			hash: true,
			want: `{}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(decode(t, tt.in), tt.hash)
			assert.JSONEq(t, tt.want, encode(t, got))
		})
	}
}

func TestNormalize_NeverLeavesRawIdentifiersWhenHashing(t *testing.T) {
	inputs := []string{
		`{"email":"a@b.com","phone_number":"555"}`,
		`{"email":["a@b.com"],"phone_number":["1","2"]}`,
		`{"email":"undefined"}`,
		`{"phone_number":""}`,
	}

	for _, in := range inputs {
		got := Normalize(decode(t, in), true)
		assert.False(t, got.Has(model.FieldEmail), in)
		assert.False(t, got.Has(model.FieldPhoneNumber), in)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	in := decode(t, `{"email":["a@b.com","c@d.com"],"phone_number":"+1 (555) 123-4567","sha256_email_address":"`+digestAB+`"}`)

	once := Normalize(in, true)
	twice := Normalize(once, true)

	assert.JSONEq(t, encode(t, once), encode(t, twice))
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	in := decode(t, `{"email":["A@B.com"],"phone_number":"555","sha256_email_address":"raw-value","city":"Lisbon"}`)
	before := encode(t, in)

	_ = Normalize(in, true)

	assert.JSONEq(t, before, encode(t, in))
}

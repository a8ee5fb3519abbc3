// SPDX-FileCopyrightText: 2022-2023 The go-mail Authors
//
// SPDX-License-Identifier: MIT

package mail

import "testing"

func TestFormatAddress(t *testing.T) {
	tests := []struct {
		name  string
		email string
		dname string
		want  string
	}{
		{"without name", "foo@bar", "", "foo@bar"},
		{"with name", "foo@bar", "Foo Bar", `"Foo Bar" <foo@bar>`},
		{"with unicode name", "foo@bar", "Jörg", `"Jörg" <foo@bar>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatAddress(tt.email, tt.dname); got != tt.want {
				t.Errorf("FormatAddress() failed. Want: %s, got: %s", tt.want, got)
			}
			if got := (Address{Email: tt.email, Name: tt.dname}).String(); got != tt.want {
				t.Errorf("Address.String() failed. Want: %s, got: %s", tt.want, got)
			}
		})
	}
}

func TestFormatAddressList(t *testing.T) {
	list := []Address{
		{Email: "foo@bar"},
		{Email: "foo@baz", Name: "Baz"},
		{Email: "foo@foo", Name: "Foo"},
	}
	want := `foo@bar, "Baz" <foo@baz>, "Foo" <foo@foo>`
	if got := FormatAddressList(list); got != want {
		t.Errorf("FormatAddressList() failed. Want: %s, got: %s", want, got)
	}
	if got := FormatAddressList(nil); got != "" {
		t.Errorf("FormatAddressList() of an empty list is expected to be empty, got: %s", got)
	}
}

func TestAddrList_Upsert(t *testing.T) {
	var list addrList
	if !list.empty() {
		t.Error("zero addrList is expected to be empty")
	}
	list.upsert("a@example.com", "")
	list.upsert("b@example.com", "B")
	list.upsert("a@example.com", "A")
	got := list.list()
	want := []Address{{Email: "a@example.com", Name: "A"}, {Email: "b@example.com", Name: "B"}}
	if !equalAddresses(got, want) {
		t.Errorf("upsert() failed. Want: %v, got: %v", want, got)
	}
	got[0].Name = "changed"
	if list.addrs[0].Name != "A" {
		t.Error("list() is expected to return a copy")
	}
}

func TestUniqueEmails(t *testing.T) {
	var to, cc addrList
	to.upsert("a@example.com", "")
	to.upsert("b@example.com", "")
	cc.upsert("b@example.com", "")
	cc.upsert("c@example.com", "")
	want := []string{"a@example.com", "b@example.com", "c@example.com"}
	if got := uniqueEmails(&to, &cc); !equalStrings(got, want) {
		t.Errorf("uniqueEmails() failed. Want: %v, got: %v", want, got)
	}
	if got := uniqueEmails(); len(got) != 0 {
		t.Errorf("uniqueEmails() without lists is expected to be empty, got: %v", got)
	}
}

// SPDX-FileCopyrightText: The go-mail Authors
//
// SPDX-License-Identifier: MIT

package mail

import "strings"

// Address is a mail address with an optional display name. An empty Name means that no display
// name is set.
type Address struct {
	Email string
	Name  string
}

// addrList is an ordered set of addresses keyed by their email. Re-adding an email updates its
// display name but keeps its original position.
type addrList struct {
	addrs []Address
}

// FormatAddress formats an email and an optional display name for use in a mail header.
//
// If name is empty, the email is returned verbatim. Otherwise the display name is enclosed in
// double quotes, followed by a space and the email enclosed in angle brackets.
//
// Parameters:
//   - email: The mail address.
//   - name: The optional display name.
//
// Returns:
//   - The formatted address, e.g. `"Toni Tester" <toni@example.com>`.
func FormatAddress(email, name string) string {
	if name == "" {
		return email
	}
	return `"` + name + `" <` + email + `>`
}

// FormatAddressList formats every Address with FormatAddress, in order, joined by ", ".
func FormatAddressList(list []Address) string {
	formatted := make([]string, 0, len(list))
	for _, addr := range list {
		formatted = append(formatted, addr.String())
	}
	return strings.Join(formatted, ", ")
}

// String satisfies the fmt.Stringer interface for the Address type.
func (a Address) String() string {
	return FormatAddress(a.Email, a.Name)
}

func (l *addrList) upsert(email, name string) {
	for i := range l.addrs {
		if l.addrs[i].Email == email {
			l.addrs[i].Name = name
			return
		}
	}
	l.addrs = append(l.addrs, Address{Email: email, Name: name})
}

func (l *addrList) list() []Address {
	list := make([]Address, len(l.addrs))
	copy(list, l.addrs)
	return list
}

func (l *addrList) empty() bool {
	return len(l.addrs) == 0
}

// uniqueEmails returns the emails of all given lists in order, skipping any email that was
// already seen in an earlier position.
func uniqueEmails(lists ...*addrList) []string {
	seen := make(map[string]struct{})
	emails := make([]string, 0)
	for _, l := range lists {
		for _, addr := range l.addrs {
			if _, ok := seen[addr.Email]; ok {
				continue
			}
			seen[addr.Email] = struct{}{}
			emails = append(emails, addr.Email)
		}
	}
	return emails
}

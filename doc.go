// SPDX-FileCopyrightText: 2022-2023 The go-mail Authors
//
// SPDX-License-Identifier: MIT

// Package mail composes multipart mail messages and renders them into the exact payload of an
// SMTP DATA command.
//
// A Msg always renders the same structure: a multipart/mixed envelope holding a
// multipart/alternative section for the plain text and HTML bodies, followed by the inline
// attachments and the regular attachments. Attachment files are only accessed when the Msg is
// rendered. Delivery is left to a Transport, see the smtp and ses subpackages.
package mail

// VERSION is used in the default user agent string
const VERSION = "0.1.0"

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store owns contest submissions.

Writes validate bounds (title 100, description 2000, literature text
7000 characters, art 10MB), require the submission window to be open,
and enforce one entry per identity per category. Art images must decode
as PNG, JPEG, GIF, or WebP; a 400px JPEG thumbnail is rendered at write
time and stored beside the original, so reads are byte-stable and never
re-encode.

Listings are in insertion (id) order - every caller sees the same
sequence.
*/
package store

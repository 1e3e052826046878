package diff

import (
	"strings"

	"github.com/k0kubun/pp/v3"
	"github.com/kylelemons/godebug/diff"
)

// Text returns a line diff that turns before into after, or "" when they are equal.
func Text(before, after string) string {
	if before == after {
		return ""
	}
	return diff.Diff(before, after)
}

// DiffExportedOnly pretty prints both values, exported fields only, and
// returns what changes the actual value into the expected one.
func DiffExportedOnly[T any](want T, got T) string {
	printer := pp.New()
	printer.SetExportedOnly(true)
	printer.SetColoringEnabled(false)

	gotStr, wantStr := printer.Sprint(got), printer.Sprint(want)
	if gotStr == wantStr {
		return ""
	}

	str := "\n\n"
	str += "to convert ACTUAL ⏩️ EXPECTED:\n\n"
	str += "add:    ➕\n"
	str += "remove: ➖\n"
	str += "\n"
	str += strings.ReplaceAll(strings.ReplaceAll("\n"+diff.Diff(gotStr, wantStr), "\n-", "\n➖"), "\n+", "\n➕")

	return str
}

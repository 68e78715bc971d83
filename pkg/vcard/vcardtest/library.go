// Package vcardtest provides an in-memory, instrumented implementation
// of the native library contract for tests. It understands only the
// minimal vCard shape the writer produces, supports scripting failure
// codes per filename, and counts every create, validate and delete so
// tests can assert the exactly-once ownership discipline.
package vcardtest

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/captaindpt/vcard-manager/pkg/vcard"
)

// Handle is the fake card resource. Fields are decoded at creation.
type Handle struct {
	lib *Library

	Origin   string // base name of the file the handle was created from
	Name     string
	BDay     vcard.DateTimeValue
	Anniv    vcard.DateTimeValue
	Optional int

	deleted bool
}

var _ vcard.Handle = (*Handle)(nil)

func (h *Handle) FormattedName() string            { return h.Name }
func (h *Handle) Birthday() vcard.DateTimeValue    { return h.BDay }
func (h *Handle) Anniversary() vcard.DateTimeValue { return h.Anniv }
func (h *Handle) OptionalPropertyCount() int       { return h.Optional }

// Library is the fake native library.
type Library struct {
	mu sync.Mutex

	createErrs   map[string]vcard.ErrorCode // by base filename
	validateErrs map[string]vcard.ErrorCode
	nextCreate   vcard.ErrorCode // one-shot, any filename
	nextValidate vcard.ErrorCode

	createCalls    int
	createOK       int
	validateCalls  int
	deleteCalls    int
	doubleDeletes  int
	foreignDeletes int
}

var _ vcard.Library = (*Library)(nil)

// NewLibrary creates an empty fake library.
func NewLibrary() *Library {
	return &Library{
		createErrs:   make(map[string]vcard.ErrorCode),
		validateErrs: make(map[string]vcard.ErrorCode),
	}
}

// FailCreate makes Create return code for the given base filename.
func (l *Library) FailCreate(filename string, code vcard.ErrorCode) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.createErrs[filename] = code
}

// FailValidate makes Validate return code for handles created from
// the given base filename.
func (l *Library) FailValidate(filename string, code vcard.ErrorCode) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.validateErrs[filename] = code
}

// FailNextCreate makes the next Create call fail regardless of
// filename, then resets.
func (l *Library) FailNextCreate(code vcard.ErrorCode) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextCreate = code
}

// FailNextValidate makes the next Validate call fail regardless of
// handle, then resets.
func (l *Library) FailNextValidate(code vcard.ErrorCode) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextValidate = code
}

// ClearFailures removes all scripted failures.
func (l *Library) ClearFailures() {
	l.mu.Lock()
	defer l.mu.Unlock()
	clear(l.createErrs)
	clear(l.validateErrs)
	l.nextCreate = vcard.OK
	l.nextValidate = vcard.OK
}

// Create parses the file at path. Content must contain BEGIN:VCARD,
// END:VCARD and a non-empty FN line to produce a handle.
func (l *Library) Create(path string) (vcard.Handle, vcard.ErrorCode) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.createCalls++

	if l.nextCreate != vcard.OK {
		code := l.nextCreate
		l.nextCreate = vcard.OK
		return nil, code
	}

	base := filepath.Base(path)
	if code, ok := l.createErrs[base]; ok {
		return nil, code
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, vcard.InvalidFile
	}

	h, code := l.parse(string(data))
	if code != vcard.OK {
		return nil, code
	}
	h.lib = l
	h.Origin = base
	l.createOK++
	return h, vcard.OK
}

// parse decodes the minimal card shape. Caller holds the lock.
func (l *Library) parse(content string) (*Handle, vcard.ErrorCode) {
	if !strings.Contains(content, "BEGIN:VCARD") || !strings.Contains(content, "END:VCARD") {
		return nil, vcard.InvalidCard
	}

	h := &Handle{}
	for _, line := range strings.Split(content, "\r\n") {
		switch {
		case strings.HasPrefix(line, "FN:"):
			h.Name = strings.TrimPrefix(line, "FN:")
		case strings.HasPrefix(line, "BDAY;VALUE=text:"):
			h.BDay = vcard.DateTimeValue{
				Kind: vcard.DateTimeFreeText,
				Text: strings.TrimPrefix(line, "BDAY;VALUE=text:"),
			}
		case strings.HasPrefix(line, "BDAY:"):
			h.BDay = vcard.DateTimeValue{
				Kind: vcard.DateTimeExplicit,
				Date: strings.TrimPrefix(line, "BDAY:"),
			}
		case strings.HasPrefix(line, "ANNIVERSARY:"):
			h.Anniv = vcard.DateTimeValue{
				Kind: vcard.DateTimeExplicit,
				Date: strings.TrimPrefix(line, "ANNIVERSARY:"),
			}
		case line == "", strings.HasPrefix(line, "BEGIN:"),
			strings.HasPrefix(line, "END:"), strings.HasPrefix(line, "VERSION:"):
			// structural lines
		default:
			h.Optional++
		}
	}

	if h.Name == "" {
		return nil, vcard.InvalidProperty
	}
	return h, vcard.OK
}

// Validate returns the scripted code for the handle's origin file, or
// OK.
func (l *Library) Validate(h vcard.Handle) vcard.ErrorCode {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.validateCalls++

	fh, ok := h.(*Handle)
	if !ok || fh == nil || fh.deleted {
		return vcard.OtherError
	}
	if l.nextValidate != vcard.OK {
		code := l.nextValidate
		l.nextValidate = vcard.OK
		return code
	}
	if code, ok := l.validateErrs[fh.Origin]; ok {
		return code
	}
	return vcard.OK
}

// Write serializes the handle back to minimal vCard text.
func (l *Library) Write(path string, h vcard.Handle) vcard.ErrorCode {
	text := l.Render(h)
	if text == "" {
		return vcard.WriteError
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return vcard.WriteError
	}
	return vcard.OK
}

// Delete frees the handle. A second call is recorded as a double
// delete instead of the undefined behavior the real library exhibits.
func (l *Library) Delete(h vcard.Handle) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fh, ok := h.(*Handle)
	if !ok || fh == nil {
		l.foreignDeletes++
		return
	}
	if fh.deleted {
		l.doubleDeletes++
		return
	}
	fh.deleted = true
	l.deleteCalls++
}

// Render reconstructs the card text. Returns "" for nil or deleted
// handles.
func (l *Library) Render(h vcard.Handle) string {
	fh, ok := h.(*Handle)
	if !ok || fh == nil || fh.deleted || fh.Name == "" {
		return ""
	}

	var b strings.Builder
	b.WriteString("BEGIN:VCARD\r\nVERSION:4.0\r\n")
	b.WriteString("FN:" + fh.Name + "\r\n")
	if fh.BDay.Kind == vcard.DateTimeExplicit && fh.BDay.Date != "" {
		b.WriteString("BDAY:" + fh.BDay.Date + "\r\n")
	}
	if fh.Anniv.Kind == vcard.DateTimeExplicit && fh.Anniv.Date != "" {
		b.WriteString("ANNIVERSARY:" + fh.Anniv.Date + "\r\n")
	}
	b.WriteString("END:VCARD\r\n")
	return b.String()
}

// CreateCalls returns the total number of Create invocations.
func (l *Library) CreateCalls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.createCalls
}

// CreatedHandles returns the number of Create calls that produced a
// handle the caller now owns.
func (l *Library) CreatedHandles() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.createOK
}

// ValidateCalls returns the total number of Validate invocations.
func (l *Library) ValidateCalls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.validateCalls
}

// DeleteCalls returns the number of deletes of live handles.
func (l *Library) DeleteCalls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.deleteCalls
}

// DoubleDeletes returns the number of deletes of already-freed
// handles. Any value above zero is a caller bug.
func (l *Library) DoubleDeletes() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.doubleDeletes
}

// LiveHandles returns how many created handles have not been deleted.
func (l *Library) LiveHandles() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.createOK - l.deleteCalls
}

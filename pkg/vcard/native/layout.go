package native

import "unsafe"

// Mirrors of the native library's structure layouts. Field order,
// types and alignment must match the C declarations exactly; the
// layout tests pin the offsets. These types never leave this package.

// cNode is a linked list node: { void* data; Node* previous; Node* next; }.
type cNode struct {
	data     unsafe.Pointer
	previous *cNode
	next     *cNode
}

// cList is the generic list header. The three trailing fields are C
// function pointers, opaque to us.
type cList struct {
	head       *cNode
	tail       *cNode
	length     int32
	deleteData uintptr
	compare    uintptr
	printData  uintptr
}

// cDateTime is either a structured date/time or free text, selected
// by the isText flag.
type cDateTime struct {
	utc    bool
	isText bool
	date   *byte
	time   *byte
	text   *byte
}

// cParameter is a name/value pair attached to a property.
type cParameter struct {
	name  *byte
	value *byte
}

// cProperty is a single vCard property.
type cProperty struct {
	name       *byte
	group      *byte
	parameters *cList
	values     *cList
}

// cCard is the top-level record: required FN property, remaining
// properties, and two optional date/time slots. Any pointer may be
// nil on partially populated cards.
type cCard struct {
	fn                 *cProperty
	optionalProperties *cList
	birthday           *cDateTime
	anniversary        *cDateTime
}

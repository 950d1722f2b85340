package jobs

// PayloadKind discriminates the Payload variants.
type PayloadKind int

const (
	// PayloadNone is the zero Payload.
	PayloadNone PayloadKind = iota
	// PayloadInline carries raw bytes.
	PayloadInline
	// PayloadEncoded carries base64 text as it arrived on the wire.
	PayloadEncoded
	// PayloadReference carries a URI or path hosted elsewhere.
	PayloadReference
)

func (k PayloadKind) String() string {
	switch k {
	case PayloadInline:
		return "inline"
	case PayloadEncoded:
		return "encoded"
	case PayloadReference:
		return "reference"
	case PayloadNone:
		return "none"
	default:
		return "unknown"
	}
}

// Payload is a job input or output that is either inline data or a
// reference to data hosted elsewhere. Branch on Kind.
type Payload struct {
	kind PayloadKind
	data []byte
	text string
}

// Inline wraps raw bytes.
func Inline(data []byte) Payload {
	return Payload{kind: PayloadInline, data: data}
}

// Encoded wraps base64 text.
func Encoded(b64 string) Payload {
	return Payload{kind: PayloadEncoded, text: b64}
}

// Reference wraps a URI or hosted path.
func Reference(uri string) Payload {
	return Payload{kind: PayloadReference, text: uri}
}

// Kind returns the variant.
func (p Payload) Kind() PayloadKind { return p.kind }

// Bytes returns the data of an Inline payload.
func (p Payload) Bytes() []byte { return p.data }

// Encoded returns the base64 text of an Encoded payload.
func (p Payload) Encoded() string {
	if p.kind != PayloadEncoded {
		return ""
	}
	return p.text
}

// URI returns the location of a Reference payload.
func (p Payload) URI() string {
	if p.kind != PayloadReference {
		return ""
	}
	return p.text
}

// IsZero reports whether p carries nothing.
func (p Payload) IsZero() bool {
	switch p.kind {
	case PayloadInline:
		return len(p.data) == 0
	case PayloadEncoded, PayloadReference:
		return p.text == ""
	case PayloadNone:
		return true
	default:
		return true
	}
}

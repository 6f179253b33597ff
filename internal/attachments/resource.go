package attachments

// Resource ties together everything that differs between attachment-bearing
// collections.
type Resource struct {
	Key              string
	Name             string
	Codec            *Codec
	Linker           Linker
	FallbackMimetype string
}

// ServeMimetype is the Content-Type for rec, falling back to the resource's
// default when the record has none.
func (r Resource) ServeMimetype(rec Record) string {
	if rec.Mimetype != "" {
		return rec.Mimetype
	}
	if r.FallbackMimetype != "" {
		return r.FallbackMimetype
	}
	return DefaultMimetype
}

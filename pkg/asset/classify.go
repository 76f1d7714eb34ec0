package asset

// Classify splits parts into the merge set and the attach set. A part is
// attached iff its metadata [Meta.AttachesToSocket]; everything else,
// including parts without metadata, is merged. Both sets keep input order.
func Classify(parts []Part) (merge, attach []Part) {
	for _, p := range parts {
		if p.Meta.AttachesToSocket() {
			attach = append(attach, p)
		} else {
			merge = append(merge, p)
		}
	}
	return merge, attach
}

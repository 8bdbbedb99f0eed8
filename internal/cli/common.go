package cli

// boolPreset renders a flag value in the form the resolver's preset
// layer accepts.
func boolPreset(v bool) string {
	if v {
		return "y"
	}
	return "n"
}

package vkinit

// Every enumeration in Vulkan follows the same shape: ask for the count,
// allocate, ask again for the array, then scan it for the name we need.
// The driver interfaces already hand back the array, so what is left is
// the scan.

func layerNames(layers []Layer) []string {
	names := make([]string, 0, len(layers))
	for _, layer := range layers {
		names = append(names, layer.Name)
	}
	return names
}

func extensionNames(extensions []Extension) []string {
	names := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		names = append(names, ext.Name)
	}
	return names
}

// Contains reports whether want is among the available names.
func Contains(available []string, want string) bool {
	for _, name := range available {
		if name == want {
			return true
		}
	}
	return false
}

// Missing returns the wanted names that are not available, in order.
func Missing(available []string, wants []string) []string {
	var missing []string
	for _, want := range wants {
		if !Contains(available, want) {
			missing = append(missing, want)
		}
	}
	return missing
}

// appendUnique appends name unless it is already present.
func appendUnique(names []string, name string) []string {
	if Contains(names, name) {
		return names
	}
	return append(names, name)
}

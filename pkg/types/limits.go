package types

// ============================================================================
// Windows Registry Limits Constants
// ============================================================================
// Limits that matter when walking untrusted hives. Different Windows versions
// differ slightly; these are the commonly documented values.

const (
	// WindowsMaxSubkeysAbsolute is the absolute maximum number of subkeys
	// that can exist under a single key.
	WindowsMaxSubkeysAbsolute = 65535

	// WindowsMaxValues is the hard limit for the number of values per key.
	WindowsMaxValues = 16384

	// WindowsMaxKeyNameLen is the hard limit for registry key names
	// (measured in characters, not bytes).
	WindowsMaxKeyNameLen = 255

	// WindowsMaxValueNameLen is the hard limit for registry value names
	// (measured in characters, not bytes).
	WindowsMaxValueNameLen = 16383

	// WindowsMaxTreeDepthPractical is the practical limit for registry
	// tree depth. Windows has no hard limit, but depths beyond this are
	// extremely rare in genuine hives.
	WindowsMaxTreeDepthPractical = 512

	// WindowsMaxTreeDepthDeep allows very deep trees for special cases.
	WindowsMaxTreeDepthDeep = 1024
)

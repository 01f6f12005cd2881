package wallet

// FormatAddress shortens an address for display, keeping start leading and
// end trailing characters.
func FormatAddress(address string, start, end int) string {
	if address == "" {
		return ""
	}
	if len(address) <= start+end {
		return address
	}
	return address[:start] + "..." + address[len(address)-end:]
}

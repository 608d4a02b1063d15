package setuptext

import "strings"

// Serialize renders a Table back into setup text. The output is
// format-stable: parsing it again yields a Table equal to the input,
// including header fields, section order and key order. Comments from the
// original input are not modeled and are therefore not reproduced.
func Serialize(t *Table) string {
	var b strings.Builder

	writeHeaderKey(&b, KeyVersion, t.Header.Version)
	writeHeaderKey(&b, KeyVehicle, t.Header.Vehicle)
	writeHeaderKey(&b, KeyTrack, t.Header.Track)
	writeHeaderKey(&b, KeySetupName, t.Header.SetupName)
	writeHeaderKey(&b, KeyTimestamp, t.Header.Timestamp)

	for _, section := range t.sections {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("[")
		b.WriteString(section.Name)
		b.WriteString("]\n")
		for _, key := range section.keys {
			b.WriteString(key)
			b.WriteString(" = ")
			b.WriteString(section.values[key].String())
			b.WriteString("\n")
		}
	}

	return b.String()
}

func writeHeaderKey(b *strings.Builder, key, value string) {
	if value == "" {
		return
	}
	b.WriteString(key)
	b.WriteString(" = ")
	b.WriteString(value)
	b.WriteString("\n")
}

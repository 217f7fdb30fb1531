package store

// DemoAppID is the one legacy demo app that ships with fixture data.
// The bootstrap below is intentionally app-specific, not a general
// seeding mechanism.
const DemoAppID = "demo-crm"

const demoTable = "contacts"

// SeedDemo seeds the demo app's contacts table with fixture rows, but
// only while the whole store is still empty. Any real record anywhere
// in the snapshot disables the bootstrap. Other apps get no seed data.
func SeedDemo(s Snapshot, appID string) Snapshot {
	if appID != DemoAppID || !s.Empty() {
		return s
	}
	out := s.clone()
	out[demoTable] = []Record{
		{
			"id":      "demo-contact-1",
			"name":    "Grace Hopper",
			"email":   "grace@example.com",
			"company": "Navy Research",
		},
		{
			"id":      "demo-contact-2",
			"name":    "Alan Kay",
			"email":   "alan@example.com",
			"company": "PARC",
		},
		{
			"id":      "demo-contact-3",
			"name":    "Barbara Liskov",
			"email":   "barbara@example.com",
			"company": "MIT",
		},
	}
	return out
}

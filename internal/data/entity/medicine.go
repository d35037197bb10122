package entity

// Medicine is immutable reference data, created the first time a pharmacy
// adds stock for a (name, active compound) pair not seen before.
type Medicine struct {
	Base
	Name              string   `db:"name"`
	ActiveCompound    string   `db:"active_compound"`
	Category          string   `db:"category"`
	Manufacturer      string   `db:"manufacturer"`
	Description       string   `db:"description"`
	Dosage            string   `db:"dosage"`
	SideEffects       []string `db:"side_effects"`
	Contraindications []string `db:"contraindications"`
}

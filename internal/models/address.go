package models

// AddressRecord is a wallet key reported by the node joined with its local label.
// Fields the node omits are rendered as null.
type AddressRecord struct {
	Address   *string `json:"address"`
	PublicKey *string `json:"publickey"`
	Simple    *bool   `json:"simple"`
	Default   *bool   `json:"default"`
	Label     *string `json:"label"`
}

// LabelResult is returned after creating an address or setting a label
type LabelResult struct {
	Address string  `json:"address"`
	Label   *string `json:"label"`
}

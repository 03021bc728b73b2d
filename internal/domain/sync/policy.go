package sync

// Policy is the replication direction configured per table
type Policy string

const (
	PolicyShopToOffice  Policy = "SHOP_TO_OFFICE"
	PolicyOfficeToShop  Policy = "OFFICE_TO_SHOP"
	PolicyBidirectional Policy = "BIDIRECTIONAL"
)

// IsValid checks if the policy is known
func (p Policy) IsValid() bool {
	switch p {
	case PolicyShopToOffice, PolicyOfficeToShop, PolicyBidirectional:
		return true
	}
	return false
}

// String returns the string representation of Policy
func (p Policy) String() string {
	return string(p)
}

// Side names one end of a replication link
type Side string

const (
	SideShop   Side = "SHOP"
	SideOffice Side = "OFFICE"
)

// Replicates reports whether the policy carries changes originating on the
// given side. The fetch step uses this to skip rows that would only echo
// back to their origin.
func (p Policy) Replicates(origin Side) bool {
	switch p {
	case PolicyShopToOffice:
		return origin == SideShop
	case PolicyOfficeToShop:
		return origin == SideOffice
	case PolicyBidirectional:
		return true
	}
	return false
}

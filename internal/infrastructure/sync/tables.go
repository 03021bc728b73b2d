package sync

import (
	"fmt"
	"strings"

	domainsync "github.com/retailcore/backend/internal/domain/sync"
)

// DefaultRegistry builds the registry of synchronized tables. Master data
// flows office to shop, transactional data shop to office, and the party
// registry both ways since clients are created at the point of sale too.
// DependsOn orders the apply so referenced rows land first. An
// installation may override the policy of any table through the
// synchronization_policies configuration; an override naming an unknown
// table or policy is rejected.
func DefaultRegistry(overrides map[string]string) (*domainsync.Registry, error) {
	registry := domainsync.NewRegistry()
	specs := []domainsync.TableSpec{
		{Name: "persons", Policy: domainsync.PolicyBidirectional},
		{Name: "sellables", Policy: domainsync.PolicyOfficeToShop},
		{Name: "payment_groups", Policy: domainsync.PolicyBidirectional, DependsOn: []string{"persons"}},
		{Name: "sales", Policy: domainsync.PolicyShopToOffice, DependsOn: []string{"persons", "sellables", "payment_groups"}},
		{Name: "returned_sales", Policy: domainsync.PolicyShopToOffice, DependsOn: []string{"sales"}},
		{Name: "renegotiations", Policy: domainsync.PolicyShopToOffice, DependsOn: []string{"persons", "payment_groups"}},
		{Name: "purchase_orders", Policy: domainsync.PolicyOfficeToShop, DependsOn: []string{"persons", "sellables", "payment_groups"}},
		{Name: "receiving_orders", Policy: domainsync.PolicyOfficeToShop, DependsOn: []string{"purchase_orders"}},
		{Name: "work_orders", Policy: domainsync.PolicyShopToOffice, DependsOn: []string{"persons", "sellables", "payment_groups"}},
		{Name: "production_orders", Policy: domainsync.PolicyOfficeToShop, DependsOn: []string{"sellables"}},
		{Name: "fiscal_book_entries", Policy: domainsync.PolicyShopToOffice, DependsOn: []string{"payment_groups"}},
	}
	known := make(map[string]struct{}, len(specs))
	for i := range specs {
		known[specs[i].Name] = struct{}{}
		raw, ok := overrides[specs[i].Name]
		if !ok {
			continue
		}
		policy := domainsync.Policy(strings.ToUpper(raw))
		if !policy.IsValid() {
			return nil, fmt.Errorf("synchronization_policies: unknown policy %q for table %s", raw, specs[i].Name)
		}
		specs[i].Policy = policy
	}
	for name := range overrides {
		if _, ok := known[name]; !ok {
			return nil, fmt.Errorf("synchronization_policies: unknown table %q", name)
		}
	}
	for _, spec := range specs {
		if err := registry.Register(spec); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

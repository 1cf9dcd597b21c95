// internal/inventory/seed.go
package inventory

import (
	"fmt"

	"pharmabackend/internal/data"
	"pharmabackend/internal/logger"
)

// SeedSampleData loads the demo catalog on an empty database. Products go
// through CreateProduct so every seeded row carries its Initial ledger entry
// and the cached quantities reconcile against the ledger from day one.
func SeedSampleData() error {
	svc := NewService()

	existing, err := svc.ListProducts()
	if err != nil {
		return fmt.Errorf("failed to check existing products: %w", err)
	}
	if len(existing) > 0 {
		logger.LogInfo("Sample data seeding skipped: %d products already present", len(existing))
		return nil
	}

	suppliers := []data.Supplier{
		{Name: "Global Pharma", Contact: "sales@globalpharma.com"},
		{Name: "BioHealth Corp", Contact: "orders@biohealth.co"},
		{Name: "PureMed Supplies", Contact: "support@puremed.com"},
	}

	supplierRepo := data.NewSupplierRepository()
	for _, s := range suppliers {
		if _, err := supplierRepo.Insert(s); err != nil {
			return fmt.Errorf("failed to seed supplier %s: %w", s.Name, err)
		}
	}

	products := []data.Product{
		{Name: "Panadol 500mg", Category: "Analgesics", UnitPrice: 2.5, StockQty: 150, Description: "Quick relief from pain and fever.", Supplier: "Global Pharma", Location: "Rack A-1"},
		{Name: "Amoxicillin 250mg", Category: "Antibiotics", UnitPrice: 5.0, StockQty: 80, Description: "Effective against bacterial infections.", Supplier: "BioHealth Corp", Location: "Shelf B-2"},
		{Name: "Dettol Antiseptic", Category: "Antiseptics", UnitPrice: 3.5, StockQty: 45, Description: "Liquid antiseptic for wounds.", Supplier: "PureMed Supplies", Location: "OTC Area"},
		{Name: "Vitamin C 1000mg", Category: "Supplements", UnitPrice: 12.0, StockQty: 200, Description: "Daily immune system support.", Supplier: "BioHealth Corp", Location: "Rack C-1"},
		{Name: "Ibuprofen 200mg", Category: "Analgesics", UnitPrice: 4.0, StockQty: 120, Description: "Anti-inflammatory pain reliever.", Supplier: "Global Pharma", Location: "Rack A-2"},
		{Name: "Azithromycin 500mg", Category: "Antibiotics", UnitPrice: 15.0, StockQty: 50, Description: "Broad-spectrum antibiotic.", Supplier: "BioHealth Corp", Location: "Shelf B-1"},
		{Name: "Hand Sanitizer 500ml", Category: "Antiseptics", UnitPrice: 6.5, StockQty: 100, Description: "Kills 99.9% of germs instantly.", Supplier: "PureMed Supplies", Location: "OTC Area"},
		{Name: "Multivitamin Gold", Category: "Supplements", UnitPrice: 25.0, StockQty: 30, Description: "Complete daily nutritional support.", Supplier: "Global Pharma", Location: "Rack C-2"},
		{Name: "Aspirin 81mg", Category: "Analgesics", UnitPrice: 1.5, StockQty: 300, Description: "Low-dose heart health support.", Supplier: "PureMed Supplies", Location: "Rack A-3"},
		{Name: "Ciprofloxacin 500mg", Category: "Antibiotics", UnitPrice: 18.0, StockQty: 40, Description: "Used for severe infections.", Supplier: "BioHealth Corp", Location: "Shelf B-3"},
		{Name: "Betadine Solution", Category: "Antiseptics", UnitPrice: 5.5, StockQty: 60, Description: "Povidone-iodine for wound care.", Supplier: "Global Pharma", Location: "Rack D-1"},
		{Name: "Fish Oil 1000mg", Category: "Supplements", UnitPrice: 20.0, StockQty: 75, Description: "Supports heart and brain health.", Supplier: "PureMed Supplies", Location: "Rack C-3"},
		{Name: "Paracetamol Syrup", Category: "Analgesics", UnitPrice: 4.5, StockQty: 90, Description: "Fever relief for children.", Supplier: "BioHealth Corp", Location: "Rack A-4"},
		{Name: "Cephalexin 500mg", Category: "Antibiotics", UnitPrice: 10.0, StockQty: 55, Description: "Upper respiratory infection relief.", Supplier: "Global Pharma", Location: "Shelf B-4"},
		{Name: "Calcium + D3", Category: "Supplements", UnitPrice: 14.0, StockQty: 110, Description: "Bone and teeth health support.", Supplier: "PureMed Supplies", Location: "Rack C-4"},
	}

	for _, p := range products {
		if _, err := svc.CreateProduct(p); err != nil {
			return fmt.Errorf("failed to seed product %s: %w", p.Name, err)
		}
	}

	logger.LogInfo("Seeded %d suppliers and %d products", len(suppliers), len(products))
	return nil
}

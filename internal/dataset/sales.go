package dataset

import "github.com/hyperjump/kotae/internal/models"

// Sales domain tags.
const (
	TagRevenue  models.DomainTag = "revenue"
	TagProduct  models.DomainTag = "product"
	TagCustomer models.DomainTag = "customer"
)

// ProductStatus is the catalogue availability of a product.
type ProductStatus string

const (
	ProductActive       ProductStatus = "Active"
	ProductLimited      ProductStatus = "Limited"
	ProductDiscontinued ProductStatus = "Discontinued"
)

// CustomerTier is the account segment of a customer.
type CustomerTier string

const (
	CustomerEnterprise CustomerTier = "Enterprise"
	CustomerMidMarket  CustomerTier = "Mid-Market"
	CustomerSmall      CustomerTier = "Small Business"
)

// RevenueEntry is one month of revenue and cost for a region.
type RevenueEntry struct {
	Month   string  `json:"month"`
	Region  string  `json:"region"`
	Revenue float64 `json:"revenue"`
	Cost    float64 `json:"cost"`
	Profit  float64 `json:"profit"`
}

func (r RevenueEntry) RecordID() string { return r.Month + "/" + r.Region }

// ProductSales is the quarter-to-date sales of one product.
type ProductSales struct {
	ProductID   string        `json:"productId"`
	ProductName string        `json:"productName"`
	Category    string        `json:"category"`
	UnitsSold   int           `json:"unitsSold"`
	Revenue     float64       `json:"revenue"`
	Status      ProductStatus `json:"status"`
}

func (p ProductSales) RecordID() string { return p.ProductID }

// CustomerEntry is one account and its spend.
type CustomerEntry struct {
	CustomerID   string       `json:"customerId"`
	Name         string       `json:"name"`
	Segment      CustomerTier `json:"segment"`
	Region       string       `json:"region"`
	TotalSpend   float64      `json:"totalSpend"`
	OrdersPlaced int          `json:"ordersPlaced"`
}

func (c CustomerEntry) RecordID() string { return c.CustomerID }

var salesRevenue = []RevenueEntry{
	{Month: "2026-01", Region: "North", Revenue: 182000, Cost: 121000, Profit: 61000},
	{Month: "2026-01", Region: "South", Revenue: 143500, Cost: 102300, Profit: 41200},
	{Month: "2026-02", Region: "North", Revenue: 195400, Cost: 127800, Profit: 67600},
	{Month: "2026-02", Region: "South", Revenue: 151200, Cost: 109900, Profit: 41300},
	{Month: "2026-03", Region: "North", Revenue: 201900, Cost: 131200, Profit: 70700},
	{Month: "2026-03", Region: "South", Revenue: 148700, Cost: 112400, Profit: 36300},
	{Month: "2026-04", Region: "North", Revenue: 210300, Cost: 134900, Profit: 75400},
	{Month: "2026-04", Region: "South", Revenue: 160800, Cost: 115600, Profit: 45200},
}

var salesProducts = []ProductSales{
	{ProductID: "SKU-100", ProductName: "Aspirin 100mg", Category: "Analgesic", UnitsSold: 124000, Revenue: 186000, Status: ProductActive},
	{ProductID: "SKU-101", ProductName: "Ibuprofen 200mg", Category: "Analgesic", UnitsSold: 98000, Revenue: 171500, Status: ProductActive},
	{ProductID: "SKU-102", ProductName: "Paracetamol 500mg", Category: "Analgesic", UnitsSold: 143000, Revenue: 157300, Status: ProductActive},
	{ProductID: "SKU-200", ProductName: "Amoxicillin 250mg", Category: "Antibiotic", UnitsSold: 41000, Revenue: 143500, Status: ProductLimited},
	{ProductID: "SKU-300", ProductName: "Metformin 500mg", Category: "Diabetes", UnitsSold: 67000, Revenue: 120600, Status: ProductActive},
	{ProductID: "SKU-400", ProductName: "Atorvastatin 20mg", Category: "Cardiovascular", UnitsSold: 52000, Revenue: 208000, Status: ProductActive},
	{ProductID: "SKU-500", ProductName: "Omeprazole 20mg", Category: "Gastro", UnitsSold: 38000, Revenue: 95000, Status: ProductLimited},
	{ProductID: "SKU-401", ProductName: "Lisinopril 10mg", Category: "Cardiovascular", UnitsSold: 12000, Revenue: 30000, Status: ProductDiscontinued},
}

var salesCustomers = []CustomerEntry{
	{CustomerID: "C001", Name: "Northwind Pharmacy Group", Segment: CustomerEnterprise, Region: "North", TotalSpend: 412000, OrdersPlaced: 38},
	{CustomerID: "C002", Name: "Harbor Health Clinics", Segment: CustomerMidMarket, Region: "South", TotalSpend: 186500, OrdersPlaced: 22},
	{CustomerID: "C003", Name: "Greenleaf Drugstores", Segment: CustomerEnterprise, Region: "North", TotalSpend: 355200, OrdersPlaced: 31},
	{CustomerID: "C004", Name: "Sunrise Family Care", Segment: CustomerSmall, Region: "South", TotalSpend: 48300, OrdersPlaced: 9},
	{CustomerID: "C005", Name: "Metro Hospital Supply", Segment: CustomerEnterprise, Region: "South", TotalSpend: 298700, OrdersPlaced: 27},
	{CustomerID: "C006", Name: "Valley Wellness", Segment: CustomerSmall, Region: "North", TotalSpend: 36900, OrdersPlaced: 7},
	{CustomerID: "C007", Name: "Coastal Medical Partners", Segment: CustomerMidMarket, Region: "South", TotalSpend: 154100, OrdersPlaced: 18},
	{CustomerID: "C008", Name: "Pinecrest Pharmacies", Segment: CustomerMidMarket, Region: "North", TotalSpend: 171800, OrdersPlaced: 20},
}

// Sales returns the business/sales deployment. Default tag is revenue.
func Sales() *Deployment {
	return &Deployment{
		Name: DeploymentSales,
		Tags: []models.DomainTag{TagRevenue, TagProduct, TagCustomer},
		Collections: map[models.DomainTag][]models.Record{
			TagRevenue:  collect(salesRevenue),
			TagProduct:  collect(salesProducts),
			TagCustomer: collect(salesCustomers),
		},
		decoders: map[models.DomainTag]func([]byte) (models.Record, error){
			TagRevenue:  decodeAs[RevenueEntry],
			TagProduct:  decodeAs[ProductSales],
			TagCustomer: decodeAs[CustomerEntry],
		},
	}
}

package dataset

import "github.com/hyperjump/kotae/internal/models"

// Manufacturing domain tags.
const (
	TagBatch     models.DomainTag = "batch"
	TagEquipment models.DomainTag = "equipment"
	TagPlan      models.DomainTag = "plan"
	TagOrder     models.DomainTag = "order"
)

// BatchStatus is the quality release state of a batch.
type BatchStatus string

const (
	BatchReleased   BatchStatus = "Released"
	BatchPending    BatchStatus = "Pending"
	BatchRejected   BatchStatus = "Rejected"
	BatchInProgress BatchStatus = "In Progress"
)

// EquipmentStatus is the operating state of a machine.
type EquipmentStatus string

const (
	EquipmentRunning     EquipmentStatus = "Running"
	EquipmentIdle        EquipmentStatus = "Idle"
	EquipmentMaintenance EquipmentStatus = "Maintenance"
	EquipmentOffline     EquipmentStatus = "Offline"
)

// PlanStatus is the progress of a production plan.
type PlanStatus string

const (
	PlanCompleted  PlanStatus = "Completed"
	PlanInProgress PlanStatus = "In Progress"
	PlanDelayed    PlanStatus = "Delayed"
	PlanPending    PlanStatus = "Pending"
)

// FulfillmentStatus is how much of an order has shipped.
type FulfillmentStatus string

const (
	OrderFulfilled FulfillmentStatus = "Fulfilled"
	OrderPartial   FulfillmentStatus = "Partial"
	OrderPending   FulfillmentStatus = "Pending"
)

// Batch is one production batch.
type Batch struct {
	BatchID     string      `json:"batchId"`
	ProductName string      `json:"productName"`
	Line        string      `json:"line"`
	Status      BatchStatus `json:"status"`
	Quantity    int         `json:"quantity"`
	Unit        string      `json:"unit"`
	StartDate   string      `json:"startDate"`
	EndDate     string      `json:"endDate"`
}

func (b Batch) RecordID() string { return b.BatchID }

// Equipment is one machine on a production line.
type Equipment struct {
	EquipmentID     string          `json:"equipmentId"`
	Name            string          `json:"name"`
	Type            string          `json:"type"`
	Status          EquipmentStatus `json:"status"`
	UtilizationRate float64         `json:"utilizationRate"`
	Line            string          `json:"line"`
}

func (e Equipment) RecordID() string { return e.EquipmentID }

// ProductionPlan compares planned and actual output for a product run.
type ProductionPlan struct {
	PlanID          string     `json:"planId"`
	ProductName     string     `json:"productName"`
	Line            string     `json:"line"`
	PlannedQuantity int        `json:"plannedQuantity"`
	ActualQuantity  int        `json:"actualQuantity"`
	PlannedDate     string     `json:"plannedDate"`
	Status          PlanStatus `json:"status"`
}

func (p ProductionPlan) RecordID() string { return p.PlanID }

// Order is one customer order and its fulfillment state.
type Order struct {
	OrderID           string            `json:"orderId"`
	ProductName       string            `json:"productName"`
	Quantity          int               `json:"quantity"`
	DueDate           string            `json:"dueDate"`
	FulfillmentStatus FulfillmentStatus `json:"fulfillmentStatus"`
	Line              string            `json:"line"`
}

func (o Order) RecordID() string { return o.OrderID }

var manufacturingBatches = []Batch{
	{BatchID: "B001", ProductName: "Aspirin 100mg", Line: "Line A", Status: BatchReleased, Quantity: 50000, Unit: "tablets", StartDate: "2026-02-15", EndDate: "2026-02-17"},
	{BatchID: "B002", ProductName: "Ibuprofen 200mg", Line: "Line A", Status: BatchReleased, Quantity: 45000, Unit: "tablets", StartDate: "2026-02-17", EndDate: "2026-02-19"},
	{BatchID: "B003", ProductName: "Paracetamol 500mg", Line: "Line B", Status: BatchInProgress, Quantity: 60000, Unit: "tablets", StartDate: "2026-02-20", EndDate: "2026-02-22"},
	{BatchID: "B004", ProductName: "Amoxicillin 250mg", Line: "Line B", Status: BatchPending, Quantity: 30000, Unit: "capsules", StartDate: "2026-02-22", EndDate: "2026-02-24"},
	{BatchID: "B005", ProductName: "Metformin 500mg", Line: "Line A", Status: BatchReleased, Quantity: 40000, Unit: "tablets", StartDate: "2026-02-19", EndDate: "2026-02-21"},
	{BatchID: "B006", ProductName: "Atorvastatin 20mg", Line: "Line C", Status: BatchRejected, Quantity: 35000, Unit: "tablets", StartDate: "2026-02-18", EndDate: "2026-02-20"},
	{BatchID: "B007", ProductName: "Omeprazole 20mg", Line: "Line C", Status: BatchReleased, Quantity: 25000, Unit: "capsules", StartDate: "2026-02-20", EndDate: "2026-02-22"},
	{BatchID: "B008", ProductName: "Lisinopril 10mg", Line: "Line B", Status: BatchInProgress, Quantity: 50000, Unit: "tablets", StartDate: "2026-02-21", EndDate: "2026-02-23"},
}

var manufacturingEquipment = []Equipment{
	{EquipmentID: "EQ001", Name: "Tablet Press A1", Type: "Tablet Press", Status: EquipmentRunning, UtilizationRate: 92, Line: "Line A"},
	{EquipmentID: "EQ002", Name: "Coating Machine A1", Type: "Coater", Status: EquipmentRunning, UtilizationRate: 85, Line: "Line A"},
	{EquipmentID: "EQ003", Name: "Blister Machine A2", Type: "Blister", Status: EquipmentIdle, UtilizationRate: 45, Line: "Line A"},
	{EquipmentID: "EQ004", Name: "Capsule Filler B1", Type: "Capsule Filler", Status: EquipmentRunning, UtilizationRate: 88, Line: "Line B"},
	{EquipmentID: "EQ005", Name: "Tablet Press B2", Type: "Tablet Press", Status: EquipmentMaintenance, UtilizationRate: 30, Line: "Line B"},
	{EquipmentID: "EQ006", Name: "Packaging Line C1", Type: "Packaging", Status: EquipmentRunning, UtilizationRate: 95, Line: "Line C"},
	{EquipmentID: "EQ007", Name: "Metal Detector C2", Type: "Detector", Status: EquipmentOffline, UtilizationRate: 0, Line: "Line C"},
	{EquipmentID: "EQ008", Name: "Vision Inspector A3", Type: "Inspector", Status: EquipmentRunning, UtilizationRate: 78, Line: "Line A"},
}

var manufacturingPlans = []ProductionPlan{
	{PlanID: "P001", ProductName: "Aspirin 100mg", Line: "Line A", PlannedQuantity: 50000, ActualQuantity: 50000, PlannedDate: "2026-02-15", Status: PlanCompleted},
	{PlanID: "P002", ProductName: "Ibuprofen 200mg", Line: "Line A", PlannedQuantity: 45000, ActualQuantity: 45000, PlannedDate: "2026-02-17", Status: PlanCompleted},
	{PlanID: "P003", ProductName: "Paracetamol 500mg", Line: "Line B", PlannedQuantity: 60000, ActualQuantity: 58000, PlannedDate: "2026-02-20", Status: PlanInProgress},
	{PlanID: "P004", ProductName: "Amoxicillin 250mg", Line: "Line B", PlannedQuantity: 30000, ActualQuantity: 0, PlannedDate: "2026-02-22", Status: PlanPending},
	{PlanID: "P005", ProductName: "Metformin 500mg", Line: "Line A", PlannedQuantity: 40000, ActualQuantity: 40000, PlannedDate: "2026-02-19", Status: PlanCompleted},
	{PlanID: "P006", ProductName: "Atorvastatin 20mg", Line: "Line C", PlannedQuantity: 40000, ActualQuantity: 35000, PlannedDate: "2026-02-18", Status: PlanDelayed},
	{PlanID: "P007", ProductName: "Omeprazole 20mg", Line: "Line C", PlannedQuantity: 25000, ActualQuantity: 25000, PlannedDate: "2026-02-20", Status: PlanCompleted},
	{PlanID: "P008", ProductName: "Lisinopril 10mg", Line: "Line B", PlannedQuantity: 50000, ActualQuantity: 42000, PlannedDate: "2026-02-21", Status: PlanInProgress},
}

var manufacturingOrders = []Order{
	{OrderID: "ORD001", ProductName: "Aspirin 100mg", Quantity: 50000, DueDate: "2026-02-20", FulfillmentStatus: OrderFulfilled, Line: "Line A"},
	{OrderID: "ORD002", ProductName: "Ibuprofen 200mg", Quantity: 40000, DueDate: "2026-02-22", FulfillmentStatus: OrderFulfilled, Line: "Line A"},
	{OrderID: "ORD003", ProductName: "Paracetamol 500mg", Quantity: 60000, DueDate: "2026-02-25", FulfillmentStatus: OrderPartial, Line: "Line B"},
	{OrderID: "ORD004", ProductName: "Amoxicillin 250mg", Quantity: 30000, DueDate: "2026-02-28", FulfillmentStatus: OrderPending, Line: "Line B"},
	{OrderID: "ORD005", ProductName: "Metformin 500mg", Quantity: 35000, DueDate: "2026-02-23", FulfillmentStatus: OrderFulfilled, Line: "Line A"},
	{OrderID: "ORD006", ProductName: "Atorvastatin 20mg", Quantity: 40000, DueDate: "2026-02-24", FulfillmentStatus: OrderPartial, Line: "Line C"},
	{OrderID: "ORD007", ProductName: "Omeprazole 20mg", Quantity: 25000, DueDate: "2026-02-26", FulfillmentStatus: OrderFulfilled, Line: "Line C"},
	{OrderID: "ORD008", ProductName: "Lisinopril 10mg", Quantity: 50000, DueDate: "2026-02-27", FulfillmentStatus: OrderPending, Line: "Line B"},
}

// Manufacturing returns the pharmaceutical production deployment. Default tag is batch.
func Manufacturing() *Deployment {
	return &Deployment{
		Name: DeploymentManufacturing,
		Tags: []models.DomainTag{TagBatch, TagEquipment, TagPlan, TagOrder},
		Collections: map[models.DomainTag][]models.Record{
			TagBatch:     collect(manufacturingBatches),
			TagEquipment: collect(manufacturingEquipment),
			TagPlan:      collect(manufacturingPlans),
			TagOrder:     collect(manufacturingOrders),
		},
		decoders: map[models.DomainTag]func([]byte) (models.Record, error){
			TagBatch:     decodeAs[Batch],
			TagEquipment: decodeAs[Equipment],
			TagPlan:      decodeAs[ProductionPlan],
			TagOrder:     decodeAs[Order],
		},
	}
}

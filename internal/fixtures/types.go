package fixtures

// Organization is a workspace offered on the login page.
type Organization struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
}

// Metric is a literal label/value pair shown on a KPI card.
type Metric struct {
	Label string `yaml:"label" json:"label"`
	Value string `yaml:"value" json:"value"`
}

// CategoryPoint is one bar of the inventory turnover chart.
type CategoryPoint struct {
	Name   string `yaml:"name" json:"name"`
	Value  int    `yaml:"value" json:"value"`
	Amount int    `yaml:"amount" json:"amount"`
}

// SalesPoint is one month of the sales vs. material costs chart.
type SalesPoint struct {
	Month string `yaml:"month" json:"month"`
	Sales int    `yaml:"sales" json:"sales"`
	Costs int    `yaml:"costs" json:"costs"`
}

// Order is a row of the recent orders table. Amount and Date are display strings.
type Order struct {
	ID       string `yaml:"id" json:"id"`
	Customer string `yaml:"customer" json:"customer"`
	Amount   string `yaml:"amount" json:"amount"`
	Status   string `yaml:"status" json:"status"`
	Date     string `yaml:"date" json:"date"`
	Avatar   string `yaml:"avatar" json:"avatar"`
	Client   string `yaml:"client" json:"client"`
	Project  string `yaml:"project" json:"project"`
}

// Contact is the project contact shown in an expanded order row.
type Contact struct {
	Name     string `yaml:"name" json:"name"`
	Role     string `yaml:"role" json:"role"`
	Location string `yaml:"location" json:"location"`
}

// TrackingStep is one stage of the shipment timeline.
type TrackingStep struct {
	Status    string `yaml:"status" json:"status"`
	Date      string `yaml:"date" json:"date"`
	Location  string `yaml:"location" json:"location"`
	Completed bool   `yaml:"completed" json:"completed"`
	Alert     bool   `yaml:"alert" json:"alert"`
}

// Location is a named delivery address.
type Location struct {
	Name    string `yaml:"name" json:"name"`
	Address string `yaml:"address" json:"address"`
}

// Notice is a titled alert line.
type Notice struct {
	Title  string `yaml:"title" json:"title"`
	Detail string `yaml:"detail" json:"detail"`
}

// Item is an inventory SKU. Status is a literal label and is not derived from Stock.
type Item struct {
	ID         string `yaml:"id" json:"id"`
	Name       string `yaml:"name" json:"name"`
	Category   string `yaml:"category" json:"category"`
	Properties string `yaml:"properties" json:"properties"`
	Stock      int    `yaml:"stock" json:"stock"`
	Status     string `yaml:"status" json:"status"`
	AIStatus   string `yaml:"ai_status" json:"ai_status,omitempty"`
}

// LifecycleStep is one stage of the product lifecycle indicator.
type LifecycleStep struct {
	Name      string `yaml:"name" json:"name"`
	Detail    string `yaml:"detail" json:"detail"`
	Completed bool   `yaml:"completed" json:"completed"`
	Current   bool   `yaml:"current" json:"current"`
}

// PurchaseOrder is the literal purchase order preview.
type PurchaseOrder struct {
	Number        string `yaml:"number" json:"number"`
	Date          string `yaml:"date" json:"date"`
	Buyer         string `yaml:"buyer" json:"buyer"`
	BuyerAddress  string `yaml:"buyer_address" json:"buyer_address"`
	Vendor        string `yaml:"vendor" json:"vendor"`
	VendorAddress string `yaml:"vendor_address" json:"vendor_address"`
	Quantity      int    `yaml:"quantity" json:"quantity"`
	UnitPrice     string `yaml:"unit_price" json:"unit_price"`
	Total         string `yaml:"total" json:"total"`
}

// PendingOrder is an order awaiting approval in the assistant widget.
type PendingOrder struct {
	ID      string `yaml:"id" json:"id"`
	Client  string `yaml:"client" json:"client"`
	Amount  string `yaml:"amount" json:"amount"`
	Status  string `yaml:"status" json:"status"`
	Details string `yaml:"details" json:"details"`
}

// AppActivity is an entry of the workspace activity sidebar.
type AppActivity struct {
	App  string `yaml:"app" json:"app"`
	Text string `yaml:"text" json:"text"`
	Time string `yaml:"time" json:"time"`
}

// SystemLog is a seeded entry of the workspace system log dialog.
type SystemLog struct {
	Text  string `yaml:"text" json:"text"`
	Time  string `yaml:"time" json:"time"`
	Level string `yaml:"level" json:"level"`
}

// Pack is the full set of fixture data bundled into the binary.
type Pack struct {
	Organizations     []Organization  `yaml:"organizations"`
	KPIs              []Metric        `yaml:"kpis"`
	Financials        []Metric        `yaml:"financials"`
	InventoryTurnover []CategoryPoint `yaml:"inventory_turnover"`
	Sales             []SalesPoint    `yaml:"sales"`
	Orders            []Order         `yaml:"orders"`
	OrderStatuses     []string        `yaml:"order_statuses"`
	OrderContact      Contact         `yaml:"order_contact"`
	OrderProgress     []string        `yaml:"order_progress"`
	TrackingSteps     []TrackingStep  `yaml:"tracking_steps"`
	DeliveryLocation  Location        `yaml:"delivery_location"`
	TrackingAlert     Notice          `yaml:"tracking_alert"`
	Items             []Item          `yaml:"items"`
	LifecycleSteps    []LifecycleStep `yaml:"lifecycle_steps"`
	PurchaseOrder     PurchaseOrder   `yaml:"purchase_order"`
	PendingOrders     []PendingOrder  `yaml:"pending_orders"`
	AppActivities     []AppActivity   `yaml:"app_activities"`
	SystemLogs        []SystemLog     `yaml:"system_logs"`
}

package api

import "time"

// Customer is a record from /clientes.
type Customer struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Product is a record from /productos.
type Product struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// OrderItem is one line of an order. ProductName and Price are only
// populated when the backend expands the item.
type OrderItem struct {
	ProductID   int64   `json:"productoId"`
	ProductName string  `json:"productoNombre,omitempty"`
	Quantity    int     `json:"cantidad"`
	Price       float64 `json:"price,omitempty"`
}

// Order is a record from /pedidos. Customer is populated on reads,
// CustomerID is what creates send.
type Order struct {
	ID         int64       `json:"id,omitempty"`
	CustomerID int64       `json:"clienteId,omitempty"`
	Customer   *Customer   `json:"cliente,omitempty"`
	Date       time.Time   `json:"fecha"`
	Total      float64     `json:"total"`
	Items      []OrderItem `json:"productos,omitempty"`
}

// Invoice is a record from /facturas.
type Invoice struct {
	ID      int64     `json:"id,omitempty"`
	OrderID int64     `json:"pedidoId"`
	Date    time.Time `json:"fecha"`
	Total   float64   `json:"total"`
}

// Employee is a record from /employees.
type Employee struct {
	ID           int64  `json:"id,omitempty"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	Address      string `json:"address,omitempty"`
	Phone        string `json:"phone,omitempty"`
	DepartmentID int64  `json:"departmentId,omitempty"`
}

// Department is a record from /departments.
type Department struct {
	ID          int64  `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Skill is a record from /skills.
type Skill struct {
	ID          int64  `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Dependent is a record from /dependents.
type Dependent struct {
	ID           int64  `json:"id,omitempty"`
	Name         string `json:"name"`
	Relationship string `json:"relationship,omitempty"`
	Phone        string `json:"phone,omitempty"`
	EmployeeID   int64  `json:"employeeId"`
}

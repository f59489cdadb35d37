// Package testutil holds shared fixtures and the MongoDB testcontainer used by integration tests.
package testutil

import "github.com/guttosm/loadplan-service/internal/domain/model"

// Carton is a 60 x 40 x 20 item that tiles PalletBox exactly (1000 units).
func Carton() model.Item {
	return model.Item{SKU: "CARTON-60", Name: "Carton 60x40x20", Width: 60, Depth: 40, Height: 20}
}

// PalletBox is a 600 x 400 x 200 container.
func PalletBox() model.Container {
	return model.Container{ID: 1, Name: "Pallet box", InnerWidth: 600, InnerDepth: 400, InnerHeight: 200}
}

// HalfBox is a 300 x 400 x 200 container holding 500 cartons.
func HalfBox() model.Container {
	return model.Container{ID: 2, Name: "Half box", InnerWidth: 300, InnerDepth: 400, InnerHeight: 200}
}

// Catalog returns both containers.
func Catalog() []model.Container {
	return []model.Container{PalletBox(), HalfBox()}
}

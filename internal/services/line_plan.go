package services

import (
	"sort"

	"storefront/internal/models"
)

// LinePlan is the set of order lines a checkout will attach. OrderID is left
// zero until the header exists.
type LinePlan struct {
	Products []models.OrderProductLine
	Services []models.OrderServiceLine
}

// PlanLines derives the order lines from a cart's contents.
//
// Product lines are merged by product id across origins. A standalone cart
// product contributes its direct quantity. Via-service units come from the
// service components when any service in the cart consumes the product, so a
// product consumed through two services accumulates; otherwise the standalone
// record's via-service quantity is used. Service lines carry the sum of their
// components' via-service quantities. Lines whose quantity is zero are
// dropped. Output is sorted by id.
func PlanLines(products []models.Product, services []models.Service) LinePlan {
	viaComponents := map[int64]int{}
	for _, s := range services {
		for _, component := range s.Products {
			viaComponents[component.ID] += component.QuantityViaService
		}
	}

	productQty := map[int64]int{}
	for _, p := range products {
		productQty[p.ID] += p.QuantityDirect
		if _, consumed := viaComponents[p.ID]; !consumed {
			productQty[p.ID] += p.QuantityViaService
		}
	}
	for id, qty := range viaComponents {
		productQty[id] += qty
	}

	plan := LinePlan{}
	for id, qty := range productQty {
		if qty > 0 {
			plan.Products = append(plan.Products, models.OrderProductLine{ProductID: id, Quantity: qty})
		}
	}
	serviceQty := map[int64]int{}
	for _, s := range services {
		serviceQty[s.ID] += s.ComponentQuantity()
	}
	for id, qty := range serviceQty {
		if qty > 0 {
			plan.Services = append(plan.Services, models.OrderServiceLine{ServiceID: id, Quantity: qty})
		}
	}

	sort.Slice(plan.Products, func(i, j int) bool { return plan.Products[i].ProductID < plan.Products[j].ProductID })
	sort.Slice(plan.Services, func(i, j int) bool { return plan.Services[i].ServiceID < plan.Services[j].ServiceID })
	return plan
}

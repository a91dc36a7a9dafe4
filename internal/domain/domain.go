// Package domain re-exports every model under a single flat namespace so
// repos and services can import one package as "types".
package domain

import (
	"github.com/shopina/shopina-backend/internal/domain/cart"
	"github.com/shopina/shopina-backend/internal/domain/catalog"
	"github.com/shopina/shopina-backend/internal/domain/order"
	"github.com/shopina/shopina-backend/internal/domain/payment"
	"github.com/shopina/shopina-backend/internal/domain/review"
	"github.com/shopina/shopina-backend/internal/domain/user"
)

type User = user.User
type UserToken = user.UserToken
type TwoFactorCode = user.TwoFactorCode

type Category = catalog.Category
type Product = catalog.Product

type Cart = cart.Cart
type CartItem = cart.CartItem

type Order = order.Order
type OrderItem = order.OrderItem
type ImportRun = order.ImportRun

type Payment = payment.Payment
type WebhookEvent = payment.WebhookEvent

type Review = review.Review

const (
	PlanFree       = user.PlanFree
	PlanStarter    = user.PlanStarter
	PlanPro        = user.PlanPro
	PlanEnterprise = user.PlanEnterprise

	OrderStatusPending    = order.StatusPending
	OrderStatusProcessing = order.StatusProcessing
	OrderStatusCompleted  = order.StatusCompleted
	OrderStatusCancelled  = order.StatusCancelled

	PaymentStatusCreated   = payment.StatusCreated
	PaymentStatusSucceeded = payment.StatusSucceeded
)

// CanTransitionOrder re-exports the order status machine check.
var CanTransitionOrder = order.CanTransition

// SlugifyProduct re-exports catalog slug generation.
var SlugifyProduct = catalog.Slugify

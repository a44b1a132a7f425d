package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rental-booking/internal/cart"
	"rental-booking/internal/data/entity"
	"rental-booking/internal/data/repository"
	"rental-booking/internal/dto/request"
	"rental-booking/internal/dto/response"
	"rental-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*response.CartResponse, error)
	AddItem(ctx context.Context, userID uuid.UUID, req *request.CartItemRequest) (*response.CartResponse, error)
	UpdateItem(ctx context.Context, userID uuid.UUID, req *request.CartItemRequest) (*response.CartResponse, error)
	RemoveItem(ctx context.Context, userID uuid.UUID, itemType entity.ItemType, itemID uuid.UUID) (*response.CartResponse, error)
	SetDates(ctx context.Context, userID uuid.UUID, req *request.CartDatesRequest) (*response.CartResponse, error)
	Clear(ctx context.Context, userID uuid.UUID) error
	Checkout(ctx context.Context, userID uuid.UUID, req *request.CheckoutRequest) (*response.CreateBookingResponse, error)
}

type cartService struct {
	repo     *repository.Repository
	store    cart.Store
	bookings BookingService
	log      *zap.Logger
}

func NewCartService(repo *repository.Repository, store cart.Store, bookings BookingService, log *zap.Logger) CartService {
	return &cartService{
		repo:     repo,
		store:    store,
		bookings: bookings,
		log:      log.With(zap.String("service", "cart")),
	}
}

// cartError turns the cart model's refusals into client errors.
func cartError(err error) error {
	var stockErr *cart.StockError
	switch {
	case errors.As(err, &stockErr):
		return newError(ErrValidation, "%s", stockErr.Error())
	case errors.Is(err, cart.ErrInvalidQuantity), errors.Is(err, cart.ErrInvalidDates):
		return newError(ErrValidation, "%s", err.Error())
	case errors.Is(err, cart.ErrLineNotFound):
		return newError(ErrNotFound, "Item is not in the cart")
	default:
		return err
	}
}

func (s *cartService) load(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	c, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return c, nil
}

func (s *cartService) save(ctx context.Context, c *cart.Cart) (*response.CartResponse, error) {
	c.UpdatedAt = time.Now()
	if err := s.store.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	resp := response.CartToResponse(c)
	return &resp, nil
}

func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*response.CartResponse, error) {
	c, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := response.CartToResponse(c)
	return &resp, nil
}

// AddItem snapshots the live catalog entry into the cart. A missing quantity
// means one unit.
func (s *cartService) AddItem(ctx context.Context, userID uuid.UUID, req *request.CartItemRequest) (*response.CartResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}
	qty := req.Quantity
	if qty == 0 {
		qty = 1
	}

	itemType := entity.ItemType(req.Type)
	itemID := uuid.MustParse(req.ItemID)

	resolved, err := lookupItem(ctx, s.repo, itemType, itemID)
	if err != nil {
		return nil, fmt.Errorf("resolve %s %s: %w", itemType, itemID, err)
	}
	if resolved == nil {
		return nil, notFoundItem(itemType, req.ItemID)
	}

	c, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	err = c.Add(cart.Line{
		Type:              itemType,
		ItemID:            itemID,
		Name:              resolved.item.ItemName,
		UnitPrice:         resolved.item.UnitPrice,
		AvailableQuantity: resolved.available,
		Quantity:          qty,
	})
	if err != nil {
		return nil, cartError(err)
	}

	return s.save(ctx, c)
}

func (s *cartService) UpdateItem(ctx context.Context, userID uuid.UUID, req *request.CartItemRequest) (*response.CartResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	c, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := c.UpdateQuantity(entity.ItemType(req.Type), uuid.MustParse(req.ItemID), req.Quantity); err != nil {
		return nil, cartError(err)
	}
	return s.save(ctx, c)
}

func (s *cartService) RemoveItem(ctx context.Context, userID uuid.UUID, itemType entity.ItemType, itemID uuid.UUID) (*response.CartResponse, error) {
	c, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !c.Remove(itemType, itemID) {
		return nil, cartError(cart.ErrLineNotFound)
	}
	return s.save(ctx, c)
}

func (s *cartService) SetDates(ctx context.Context, userID uuid.UUID, req *request.CartDatesRequest) (*response.CartResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}
	start, err := utils.ParseDate(req.StartDate)
	if err != nil {
		return nil, newError(ErrValidation, "Invalid start date")
	}
	end, err := utils.ParseDate(req.EndDate)
	if err != nil {
		return nil, newError(ErrValidation, "Invalid end date")
	}

	c, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := c.SetDates(start, end); err != nil {
		return nil, cartError(err)
	}
	return s.save(ctx, c)
}

func (s *cartService) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.store.Delete(ctx, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// Checkout books the cart as it stands. Prices and stock are re-read from the
// catalog; the cart snapshot only says what to book. The cart is emptied only
// once the booking exists, and one checkout per user runs at a time.
func (s *cartService) Checkout(ctx context.Context, userID uuid.UUID, req *request.CheckoutRequest) (*response.CreateBookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	unlock, ok, err := s.store.Lock(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("lock cart: %w", err)
	}
	if !ok {
		return nil, newError(ErrConflict, "Checkout already in progress")
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			s.log.Warn("Failed to release checkout lock", zap.String("user_id", userID.String()), zap.Error(err))
		}
	}()

	c, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(c.Lines) == 0 {
		return nil, newError(ErrValidation, "Cart is empty")
	}
	if !c.Valid() {
		return nil, newError(ErrValidation, "Please select rental dates before checking out")
	}

	lines := make([]request.BookingLineRequest, 0, len(c.Lines))
	for _, l := range c.Lines {
		lines = append(lines, request.BookingLineRequest{
			Type:     string(l.Type),
			ItemID:   l.ItemID.String(),
			Quantity: l.Quantity,
		})
	}

	resp, err := s.bookings.CreateBooking(ctx, userID, &request.CreateBookingRequest{
		StartDate:      c.StartDate.Format(time.RFC3339),
		EndDate:        c.EndDate.Format(time.RFC3339),
		Items:          lines,
		PaymentMethod:  req.PaymentMethod,
		Notes:          req.Notes,
		ProofOfPayment: req.ProofOfPayment,
	})
	if err != nil {
		return nil, err
	}

	if err := s.store.Delete(ctx, userID); err != nil {
		s.log.Warn("Booking placed but cart not cleared",
			zap.String("user_id", userID.String()), zap.String("booking_id", resp.BookingID), zap.Error(err))
	}
	return resp, nil
}

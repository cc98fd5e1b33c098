package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	olc "github.com/google/open-location-code/go"
	"go.uber.org/multierr"

	"github.com/Skotchmaster/techstore/internal/events"
	"github.com/Skotchmaster/techstore/internal/logging"
	"github.com/Skotchmaster/techstore/internal/models"
	"github.com/Skotchmaster/techstore/internal/repo"
	"github.com/Skotchmaster/techstore/internal/transport"
)

const (
	plusCodeLength = 10
	earthRadiusKM  = 6371.0
)

type ShopService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

type NearestShop struct {
	models.Shop
	DistanceKM float64 `json:"distance_km"`
}

func validateCoordinates(lat, lng float64) error {
	var errs error
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		errs = multierr.Append(errs, errors.New("latitude must be between -90 and 90"))
	}
	if math.IsNaN(lng) || lng < -180 || lng > 180 {
		errs = multierr.Append(errs, errors.New("longitude must be between -180 and 180"))
	}
	return errs
}

func (s *ShopService) GetShops(ctx context.Context) ([]models.Shop, error) {
	return s.Repo.GetShops(ctx)
}

func (s *ShopService) CreateShop(ctx context.Context, req transport.CreateShopRequest) (*models.Shop, error) {
	shop := &models.Shop{
		Address:   strings.TrimSpace(req.Address),
		Phone:     strings.TrimSpace(req.Phone),
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}

	var errs error
	if shop.Address == "" {
		errs = multierr.Append(errs, errors.New("address is required"))
	}
	switch {
	case (shop.Latitude == nil) != (shop.Longitude == nil):
		errs = multierr.Append(errs, errors.New("latitude and longitude must be given together"))
	case shop.Latitude != nil:
		if err := validateCoordinates(*shop.Latitude, *shop.Longitude); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	if errs != nil {
		return nil, validationError(errs)
	}

	if shop.Latitude != nil {
		shop.PlusCode = olc.Encode(*shop.Latitude, *shop.Longitude, plusCodeLength)
	}

	if err := s.Repo.CreateShop(ctx, shop); err != nil {
		logging.FromContext(ctx).Error("create_shop_error", "error", err)
		return nil, err
	}

	publish(ctx, s.Events, events.TopicShops, shop.ID, map[string]any{
		"type":      "shop_created",
		"shop_id":   shop.ID,
		"address":   shop.Address,
		"plus_code": shop.PlusCode,
	})

	return shop, nil
}

func (s *ShopService) NearestShop(ctx context.Context, lat, lng float64) (*NearestShop, error) {
	if err := validateCoordinates(lat, lng); err != nil {
		return nil, validationError(err)
	}

	shops, err := s.Repo.GetShopsWithCoordinates(ctx)
	if err != nil {
		return nil, err
	}
	if len(shops) == 0 {
		return nil, fmt.Errorf("shop with coordinates %w", ErrNotFound)
	}

	best := NearestShop{DistanceKM: math.Inf(1)}
	for _, sh := range shops {
		d := Haversine(lat, lng, *sh.Latitude, *sh.Longitude)
		if d < best.DistanceKM {
			best = NearestShop{Shop: sh, DistanceKM: d}
		}
	}
	best.DistanceKM = math.Round(best.DistanceKM*100) / 100

	return &best, nil
}

// Haversine returns the great-circle distance in kilometres.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := rad(lat2 - lat1)
	dLng := rad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKM * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

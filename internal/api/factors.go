package api

import (
	"context"
	"net/http"
	"sync"

	"github.com/Kiriweb/carbontracker/internal/catalog"
)

// VehicleKeys fetches the vehicle compound-key catalog.
func (c *Client) VehicleKeys(ctx context.Context) ([]string, error) {
	var keys []string
	err := c.doJSON(ctx, http.MethodGet, "/api/factors/vehicles", "/api/factors/vehicles", nil, &keys)
	return keys, err
}

// ElectricityCountries fetches the electricity country catalog.
func (c *Client) ElectricityCountries(ctx context.Context) ([]string, error) {
	var countries []string
	err := c.doJSON(ctx, http.MethodGet, "/api/factors/electricity-countries", "/api/factors/electricity-countries", nil, &countries)
	return countries, err
}

// WasteMethods fetches the waste type-to-methods catalog.
func (c *Client) WasteMethods(ctx context.Context) (map[string][]string, error) {
	var methods map[string][]string
	err := c.doJSON(ctx, http.MethodGet, "/api/factors/waste", "/api/factors/waste", nil, &methods)
	return methods, err
}

// FuelKeys fetches the fuel compound-key catalog.
func (c *Client) FuelKeys(ctx context.Context) ([]string, error) {
	var keys []string
	err := c.doJSON(ctx, http.MethodGet, "/api/factors/fuels", "/api/factors/fuels", nil, &keys)
	return keys, err
}

// LoadCatalogs fetches the four reference catalogs concurrently. Each slot
// fills independently: a failed fetch leaves its catalog empty and is
// logged, without blocking the others.
func (c *Client) LoadCatalogs(ctx context.Context) catalog.Set {
	var (
		wg        sync.WaitGroup
		vehicles  []string
		countries []string
		waste     map[string][]string
		fuels     []string
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		keys, err := c.VehicleKeys(ctx)
		if err != nil {
			c.logger.Warn().Err(err).Msg("vehicle catalog unavailable")
			return
		}
		vehicles = keys
	}()
	go func() {
		defer wg.Done()
		list, err := c.ElectricityCountries(ctx)
		if err != nil {
			c.logger.Warn().Err(err).Msg("electricity catalog unavailable")
			return
		}
		countries = list
	}()
	go func() {
		defer wg.Done()
		methods, err := c.WasteMethods(ctx)
		if err != nil {
			c.logger.Warn().Err(err).Msg("waste catalog unavailable")
			return
		}
		waste = methods
	}()
	go func() {
		defer wg.Done()
		keys, err := c.FuelKeys(ctx)
		if err != nil {
			c.logger.Warn().Err(err).Msg("fuel catalog unavailable")
			return
		}
		fuels = keys
	}()
	wg.Wait()

	return catalog.Set{
		Vehicles:  catalog.NewCompound(vehicles),
		Countries: countries,
		Waste:     catalog.NewWaste(waste),
		Fuels:     catalog.NewCompound(fuels),
	}
}

/************************************************************************************
 *
 * wfbutler - REST client middleware for a Discord-bot marketplace backend
 *
 * SPDX-License-Identifier: BSD-3-Clause
 *
 ************************************************************************************/

package wfbutler

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// The marketplace surface has no per-bucket rate limiting (§4.4 only
// applies to Discord) but every route here carries a CachePolicy, mirroring
// the original's routes.rs cache_time annotations on each WmRouteInfo.

const marketCacheScope = "warframe_market"

// GetItems lists every tradable item, cached for a day since the catalog
// barely changes.
type GetItems struct{}

func (r GetItems) Info() RouteInfo {
	return RouteInfo{
		Route:     "/items",
		BucketKey: "",
		CachePolicy: &CachePolicy{
			Bucket: marketCacheBucketKey(marketCacheScope, "items", "GET"),
			TTL:    24 * time.Hour,
		},
	}
}

func (r GetItems) Build(baseURL string) (*http.Request, error) {
	return newJSONRequest(http.MethodGet, baseURL+"/items", nil)
}

// DoGetItems executes GetItems.
func DoGetItems(ctx context.Context, c *MarketClient) ([]ItemShort, error) {
	resp, err := c.Do(ctx, GetItems{})
	if err != nil {
		return nil, err
	}
	out, err := decodeJSON[PayloadResponse[struct {
		Items []ItemShort `json:"items"`
	}]]("/items", resp)
	return out.Payload.Items, err
}

// GetItem fetches one item's detail by its url_name, scoped to a platform.
// Cached for a day, same as GetItems.
type GetItem struct {
	URLName  string
	Platform Platform
}

func (r GetItem) path() string { return fmt.Sprintf("/items/%s", r.URLName) }

func (r GetItem) Info() RouteInfo {
	return RouteInfo{
		Route: r.path(),
		CachePolicy: &CachePolicy{
			Bucket: marketCacheBucketKey(marketCacheScope, "item", "GET", r.URLName, r.Platform.String()),
			TTL:    24 * time.Hour,
		},
	}
}

func (r GetItem) Build(baseURL string) (*http.Request, error) {
	req, err := newJSONRequest(http.MethodGet, baseURL+r.path(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("platform", r.Platform.String())
	return req, nil
}

// DoGetItem executes GetItem.
func DoGetItem(ctx context.Context, c *MarketClient, urlName string, platform Platform) (*Item, error) {
	route := GetItem{URLName: urlName, Platform: platform}
	resp, err := c.Do(ctx, route)
	if err != nil {
		return nil, err
	}
	out, err := decodeJSON[PayloadResponse[struct {
		Item Item `json:"item"`
	}]](route.path(), resp)
	return &out.Payload.Item, err
}

// GetItemOrders lists the live buy/sell orders for an item, optionally
// scoped to a platform, with the item metadata folded in via include=item.
// Cached for an hour since order books churn far faster than the catalog.
type GetItemOrders struct {
	URLName  string
	Platform *Platform
}

func (r GetItemOrders) path() string { return fmt.Sprintf("/items/%s/orders", r.URLName) }

func (r GetItemOrders) Info() RouteInfo {
	values := []string{r.URLName}
	if r.Platform != nil {
		values = append(values, r.Platform.String())
	}
	return RouteInfo{
		Route: r.path(),
		CachePolicy: &CachePolicy{
			Bucket: marketCacheBucketKey(marketCacheScope, "item_orders", "GET", values...),
			TTL:    time.Hour,
		},
	}
}

func (r GetItemOrders) Build(baseURL string) (*http.Request, error) {
	req, err := newJSONRequest(http.MethodGet, baseURL+r.path()+"?include=item", nil)
	if err != nil {
		return nil, err
	}
	if r.Platform != nil {
		req.Header.Set("platform", r.Platform.String())
	}
	return req, nil
}

// DoGetItemOrders executes GetItemOrders.
func DoGetItemOrders(ctx context.Context, c *MarketClient, urlName string, platform *Platform) (*ItemOrders, error) {
	route := GetItemOrders{URLName: urlName, Platform: platform}
	resp, err := c.Do(ctx, route)
	if err != nil {
		return nil, err
	}
	out, err := decodeJSON[PayloadResponse[ItemOrders]](route.path(), resp)
	return &out.Payload, err
}

// The five routes below are simple, parameterless catalog lookups for the
// Riven/Lich subsystems. Each is cached for a day, identically to GetItems.

func simpleCatalogPolicy(name string) *CachePolicy {
	return &CachePolicy{
		Bucket: marketCacheBucketKey(marketCacheScope, name, "GET"),
		TTL:    24 * time.Hour,
	}
}

// GetLichWeapons lists Kuva/Tenet Lich weapon types.
type GetLichWeapons struct{}

func (r GetLichWeapons) Info() RouteInfo {
	return RouteInfo{Route: "/lich/weapons", CachePolicy: simpleCatalogPolicy("lich_weapons")}
}

func (r GetLichWeapons) Build(baseURL string) (*http.Request, error) {
	return newJSONRequest(http.MethodGet, baseURL+"/lich/weapons", nil)
}

// DoGetLichWeapons executes GetLichWeapons.
func DoGetLichWeapons(ctx context.Context, c *MarketClient) ([]LichWeapon, error) {
	resp, err := c.Do(ctx, GetLichWeapons{})
	if err != nil {
		return nil, err
	}
	out, err := decodeJSON[PayloadResponse[[]LichWeapon]]("/lich/weapons", resp)
	return out.Payload, err
}

// GetLichEphemeras lists Lich ephemera types.
type GetLichEphemeras struct{}

func (r GetLichEphemeras) Info() RouteInfo {
	return RouteInfo{Route: "/lich/ephemeras", CachePolicy: simpleCatalogPolicy("lich_ephemeras")}
}

func (r GetLichEphemeras) Build(baseURL string) (*http.Request, error) {
	return newJSONRequest(http.MethodGet, baseURL+"/lich/ephemeras", nil)
}

// DoGetLichEphemeras executes GetLichEphemeras.
func DoGetLichEphemeras(ctx context.Context, c *MarketClient) ([]LichEphemera, error) {
	resp, err := c.Do(ctx, GetLichEphemeras{})
	if err != nil {
		return nil, err
	}
	out, err := decodeJSON[PayloadResponse[[]LichEphemera]]("/lich/ephemeras", resp)
	return out.Payload, err
}

// GetLichQuirks lists Lich quirk types.
type GetLichQuirks struct{}

func (r GetLichQuirks) Info() RouteInfo {
	return RouteInfo{Route: "/lich/quirks", CachePolicy: simpleCatalogPolicy("lich_quirks")}
}

func (r GetLichQuirks) Build(baseURL string) (*http.Request, error) {
	return newJSONRequest(http.MethodGet, baseURL+"/lich/quirks", nil)
}

// DoGetLichQuirks executes GetLichQuirks.
func DoGetLichQuirks(ctx context.Context, c *MarketClient) ([]LichQuirk, error) {
	resp, err := c.Do(ctx, GetLichQuirks{})
	if err != nil {
		return nil, err
	}
	out, err := decodeJSON[PayloadResponse[[]LichQuirk]]("/lich/quirks", resp)
	return out.Payload, err
}

// GetRivenItems lists weapon types eligible for Riven mods.
type GetRivenItems struct{}

func (r GetRivenItems) Info() RouteInfo {
	return RouteInfo{Route: "/riven/items", CachePolicy: simpleCatalogPolicy("riven_items")}
}

func (r GetRivenItems) Build(baseURL string) (*http.Request, error) {
	return newJSONRequest(http.MethodGet, baseURL+"/riven/items", nil)
}

// DoGetRivenItems executes GetRivenItems.
func DoGetRivenItems(ctx context.Context, c *MarketClient) ([]RivenItem, error) {
	resp, err := c.Do(ctx, GetRivenItems{})
	if err != nil {
		return nil, err
	}
	out, err := decodeJSON[PayloadResponse[[]RivenItem]]("/riven/items", resp)
	return out.Payload, err
}

// GetRivenAttributes lists the Riven mod attribute catalog.
type GetRivenAttributes struct{}

func (r GetRivenAttributes) Info() RouteInfo {
	return RouteInfo{Route: "/riven/attributes", CachePolicy: simpleCatalogPolicy("riven_attributes")}
}

func (r GetRivenAttributes) Build(baseURL string) (*http.Request, error) {
	return newJSONRequest(http.MethodGet, baseURL+"/riven/attributes", nil)
}

// DoGetRivenAttributes executes GetRivenAttributes.
func DoGetRivenAttributes(ctx context.Context, c *MarketClient) ([]RivenAttribute, error) {
	resp, err := c.Do(ctx, GetRivenAttributes{})
	if err != nil {
		return nil, err
	}
	out, err := decodeJSON[PayloadResponse[[]RivenAttribute]]("/riven/attributes", resp)
	return out.Payload, err
}

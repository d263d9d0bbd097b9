// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

// Package store is a small read-only catalogue served as JSON. It backs the
// store example and the CLI's "store" application.
package store

import (
	"context"
	"slices"

	"github.com/Query-farm/getjson/getjson"
	"github.com/Query-farm/getjson/jsonvalue"
)

// Item is a catalogue entry.
type Item struct {
	ID          string
	Name        string
	Price       float64
	Category    string
	Description string
}

// Summary is the listing form of an Item.
type Summary struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Detail is the single-item form of an Item.
type Detail struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

// NotFound is returned, with status 200, for an unknown item id.
type NotFound struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// DefaultItems is the catalogue used when none is given.
var DefaultItems = []Item{
	{ID: "1", Name: "Book", Price: 29.99, Category: "books", Description: "A great book to read"},
	{ID: "2", Name: "Pen", Price: 3.99, Category: "supplies", Description: "A blue pen"},
}

// Controller serves a fixed catalogue under /store.
type Controller struct {
	items []Item
}

// New returns a controller over items, or DefaultItems when items is nil.
func New(items []Item) *Controller {
	if items == nil {
		items = DefaultItems
	}
	return &Controller{items: slices.Clone(items)}
}

type itemParams struct {
	ID string `getjson:"id,path"`
}

type searchParams struct {
	MaxPrice *float64 `getjson:"max_price,optional"`
	Category *string  `getjson:"category,optional"`
}

// Endpoints implements getjson.Controller.
func (c *Controller) Endpoints() []getjson.Endpoint {
	return []getjson.Endpoint{
		getjson.Get("/store/items", c.list),
		getjson.Get("/store/items/{id}", c.item),
		getjson.Get("/store/categories", c.categories),
		getjson.Get("/store/search", c.search),
	}
}

func (c *Controller) list(context.Context, *getjson.CallContext, struct{}) ([]Summary, error) {
	out := make([]Summary, 0, len(c.items))
	for _, it := range c.items {
		out = append(out, summarize(it))
	}
	return out, nil
}

func (c *Controller) item(_ context.Context, _ *getjson.CallContext, p itemParams) (any, error) {
	for _, it := range c.items {
		if it.ID == p.ID {
			return Detail{ID: it.ID, Name: it.Name, Price: it.Price, Description: it.Description}, nil
		}
	}
	return NotFound{Error: "Item not found", Status: 404}, nil
}

// categories counts items per category in first-seen order.
func (c *Controller) categories(context.Context, *getjson.CallContext, struct{}) (jsonvalue.Array, error) {
	var names []string
	counts := make(map[string]int64)
	for _, it := range c.items {
		if _, ok := counts[it.Category]; !ok {
			names = append(names, it.Category)
		}
		counts[it.Category]++
	}
	elems := make([]jsonvalue.Value, 0, len(names))
	for _, name := range names {
		elems = append(elems, jsonvalue.NewObject(
			jsonvalue.Prop("id", jsonvalue.String(name)),
			jsonvalue.Prop("count", jsonvalue.Int(counts[name])),
		))
	}
	return jsonvalue.NewArray(elems...), nil
}

func (c *Controller) search(_ context.Context, _ *getjson.CallContext, p searchParams) ([]Summary, error) {
	out := []Summary{}
	for _, it := range c.items {
		if p.MaxPrice != nil && it.Price > *p.MaxPrice {
			continue
		}
		if p.Category != nil && it.Category != *p.Category {
			continue
		}
		out = append(out, summarize(it))
	}
	return out, nil
}

func summarize(it Item) Summary {
	return Summary{ID: it.ID, Name: it.Name, Price: it.Price}
}

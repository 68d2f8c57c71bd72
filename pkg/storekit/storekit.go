/*
 * Copyright (c) 2019 OysterPack, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package storekit provides the in app purchase capability.
package storekit

import (
	"context"

	"github.com/oysterpack/isowords/pkg/apiclient"
	"github.com/oysterpack/isowords/pkg/deviceid"
	"github.com/pkg/errors"
)

// Product is a purchasable product
type Product struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Price       string `json:"price"`
}

// TransactionState is the purchase transaction state
type TransactionState string

// TransactionState enum values
const (
	Purchased TransactionState = "purchased"
	Failed    TransactionState = "failed"
	Restored  TransactionState = "restored"
)

// Transaction is a purchase transaction
type Transaction struct {
	ID        string           `json:"id"`
	ProductID string           `json:"productId"`
	State     TransactionState `json:"state"`
	Error     string           `json:"error,omitempty"`
}

// Client is the in app purchase capability
type Client interface {
	FetchProducts(ctx context.Context, ids []string) ([]Product, error)
	Purchase(ctx context.Context, productID string) (Transaction, error)
	// Transactions streams completed transactions
	Transactions() <-chan Transaction
}

// Live purchases products through the API server
type Live struct {
	api          apiclient.Client
	deviceID     deviceid.Provider
	transactions chan Transaction
}

// TransactionsBufferSize is the number of completed transactions that are buffered. Transactions are dropped from the
// stream, but still returned by Purchase, when the buffer is full.
const TransactionsBufferSize = 16

// NewLive constructs a new Live client
func NewLive(api apiclient.Client, deviceID deviceid.Provider) *Live {
	return &Live{
		api:          api,
		deviceID:     deviceID,
		transactions: make(chan Transaction, TransactionsBufferSize),
	}
}

// FetchProducts implements Client
func (c *Live) FetchProducts(ctx context.Context, ids []string) ([]Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []Product
	if err := c.api.APIRequest(ctx, apiclient.ProductsRoute{IDs: ids}, &products); err != nil {
		return nil, errors.Wrap(err, "failed to fetch products")
	}
	return products, nil
}

// Purchase implements Client
func (c *Live) Purchase(ctx context.Context, productID string) (Transaction, error) {
	var transaction Transaction
	if err := c.api.APIRequest(ctx, apiclient.PurchaseRoute{DeviceID: c.deviceID.ID(), ProductID: productID}, &transaction); err != nil {
		transaction = Transaction{ProductID: productID, State: Failed, Error: err.Error()}
		c.publish(transaction)
		return transaction, errors.Wrap(err, "purchase failed")
	}
	c.publish(transaction)
	return transaction, nil
}

func (c *Live) publish(transaction Transaction) {
	select {
	case c.transactions <- transaction:
	default:
	}
}

// Transactions implements Client
func (c *Live) Transactions() <-chan Transaction {
	return c.transactions
}

// Mock is a test Client
type Mock struct {
	FetchProductsFunc func(ctx context.Context, ids []string) ([]Product, error)
	PurchaseFunc      func(ctx context.Context, productID string) (Transaction, error)
	TransactionsChan  chan Transaction
}

// FetchProducts implements Client
func (m Mock) FetchProducts(ctx context.Context, ids []string) ([]Product, error) {
	if m.FetchProductsFunc == nil {
		return nil, nil
	}
	return m.FetchProductsFunc(ctx, ids)
}

// Purchase implements Client
func (m Mock) Purchase(ctx context.Context, productID string) (Transaction, error) {
	if m.PurchaseFunc == nil {
		return Transaction{ProductID: productID, State: Purchased}, nil
	}
	return m.PurchaseFunc(ctx, productID)
}

// Transactions implements Client
func (m Mock) Transactions() <-chan Transaction {
	return m.TransactionsChan
}

var (
	_ Client = &Live{}
	_ Client = Mock{}
)

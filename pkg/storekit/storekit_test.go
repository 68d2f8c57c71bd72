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

package storekit_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/oysterpack/isowords/pkg/apiclient"
	"github.com/oysterpack/isowords/pkg/deviceid"
	"github.com/oysterpack/isowords/pkg/storekit"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullGame = "co.pointfree.isowords_testing.full_game"

func TestLive(t *testing.T) {
	id := uuid.New()
	api := &apiclient.Mock{
		RequestFunc: func(ctx context.Context, route apiclient.Route) ([]byte, error) {
			switch route := route.(type) {
			case apiclient.ProductsRoute:
				assert.Equal(t, []string{fullGame}, route.IDs)
				return json.Marshal([]storekit.Product{{ID: fullGame, DisplayName: "Full Game", Price: "$4.99"}})
			case apiclient.PurchaseRoute:
				assert.Equal(t, id, route.DeviceID)
				if route.ProductID != fullGame {
					return nil, &apiclient.Error{Method: http.MethodPost, Path: "/api/purchases", StatusCode: http.StatusNotFound}
				}
				return json.Marshal(storekit.Transaction{ID: "tx-1", ProductID: fullGame, State: storekit.Purchased})
			}
			return nil, errors.Errorf("unexpected route: %T", route)
		},
	}
	client := storekit.NewLive(api, deviceid.Constant(id))
	ctx := context.Background()

	products, err := client.FetchProducts(ctx, []string{fullGame})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "$4.99", products[0].Price)

	products, err = client.FetchProducts(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, products)

	transaction, err := client.Purchase(ctx, fullGame)
	require.NoError(t, err)
	assert.Equal(t, storekit.Purchased, transaction.State)
	assert.Equal(t, transaction, <-client.Transactions())

	transaction, err = client.Purchase(ctx, "unknown")
	assert.Error(t, err)
	assert.Equal(t, storekit.Failed, transaction.State)
	failed := <-client.Transactions()
	assert.Equal(t, "unknown", failed.ProductID)
	assert.Equal(t, storekit.Failed, failed.State)
}

func TestLive_TransactionsBufferOverflow(t *testing.T) {
	api := &apiclient.Mock{
		RequestFunc: func(ctx context.Context, route apiclient.Route) ([]byte, error) {
			return json.Marshal(storekit.Transaction{ID: "tx", ProductID: fullGame, State: storekit.Purchased})
		},
	}
	client := storekit.NewLive(api, deviceid.Constant(uuid.New()))
	for i := 0; i < storekit.TransactionsBufferSize+5; i++ {
		_, err := client.Purchase(context.Background(), fullGame)
		require.NoError(t, err)
	}
	assert.Len(t, client.Transactions(), storekit.TransactionsBufferSize)
}

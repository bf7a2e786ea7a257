// Copyright 2025 trailmark.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://github.com/trailmark/reactor/blob/main/licenses/LICENSE.apache.md
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package reactor

import (
	"context"
	"io"
	"net/http"
)

// HTTPDataResult is the single value an HTTPDataTask delivers on success:
// the response body plus enough metadata to act on it, mirroring the
// platform bridge contract spec §6 describes as "one tuple of (body,
// metadata) on successful completion, then Finished".
type HTTPDataResult struct {
	Body       []byte
	StatusCode int
	Header     http.Header
}

// HTTPDataTask is a single-result head-node publisher (C16) bridging an
// HTTP request: on Subscribe it hands out a subscription that, on its
// first Request, issues req via client (or http.DefaultClient) on a fresh
// goroutine, delivers one HTTPDataResult then Finished on success, or a
// Failure on any transport/read error. Cancel aborts the in-flight request
// via the request's own context.
func HTTPDataTask(client *http.Client, req *http.Request) Publisher[HTTPDataResult] {
	if client == nil {
		client = http.DefaultClient
	}

	return PublisherFunc[HTTPDataResult](func(ctx context.Context, down Subscriber[HTTPDataResult]) {
		runCtx, cancel := context.WithCancel(ctx)

		var sub *headNodeSubscription[HTTPDataResult]
		sub = newHeadNodeSubscription[HTTPDataResult](down, func() {
			go runHTTPDataTask(runCtx, client, req, sub)
		}, cancel)

		down.OnSubscribe(ctx, sub)
	})
}

func runHTTPDataTask(ctx context.Context, client *http.Client, req *http.Request, sub *headNodeSubscription[HTTPDataResult]) {
	resp, err := client.Do(req.WithContext(ctx))
	if err != nil {
		sub.deliverCompletion(ctx, Failure(err))
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		sub.deliverCompletion(ctx, Failure(err))
		return
	}

	result := HTTPDataResult{Body: body, StatusCode: resp.StatusCode, Header: resp.Header}
	if sub.deliverValue(ctx, result) {
		sub.deliverCompletion(ctx, Finished)
	}
}

package service

import (
	"sync"

	"github.com/Alturino/plantstore/checkout/response"
)

var transitions = map[response.State][]response.State{
	response.StateIdle:         {response.StateAddressEntry},
	response.StateAddressEntry: {response.StateAddressEntry, response.StateShippingQuoted},
	response.StateShippingQuoted: {
		response.StateAddressEntry,
		response.StateShippingQuoted,
		response.StateAuthRequired,
		response.StateSubmitting,
	},
	response.StateAuthRequired: {
		response.StateAddressEntry,
		response.StateShippingQuoted,
		response.StateSubmitting,
	},
	response.StateSubmitting: {response.StateProviderPayment, response.StateShippingQuoted},
	response.StateProviderPayment: {
		response.StateFinalizing,
		response.StateShippingQuoted,
		response.StateAddressEntry,
	},
	response.StateFinalizing: {response.StateCompleted, response.StateFailed},
}

func canTransition(from, to response.State) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func oneOf(state response.State, states ...response.State) bool {
	for _, s := range states {
		if s == state {
			return true
		}
	}
	return false
}

// keyedMutex serializes checkout steps of the same client.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: map[string]*refMutex{}}
}

func (k *keyedMutex) Lock(key string) (unlock func()) {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

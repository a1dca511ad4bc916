// Copyright 2025 GreenScan Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package analyzer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"

	"github.com/ecolens/greenscan/pkg/logger"
)

// BrowserInstance is one pooled headless browser.
type BrowserInstance struct {
	Browser  *rod.Browser
	Launcher *launcher.Launcher
	Created  time.Time
	InUse    bool
}

// BrowserPool manages headless browser instances for the web adapter.
// Instances expire after maxAge and are replaced; callers waiting on a full
// pool queue until an instance is returned or their context expires.
type BrowserPool struct {
	instances []*BrowserInstance
	mu        sync.Mutex
	maxSize   int
	maxAge    time.Duration
	waitQueue chan chan *BrowserInstance
	closed    bool
	log       logger.Logger
}

// NewBrowserPool creates a pool of at most maxSize instances, each recycled
// after maxAge.
func NewBrowserPool(maxSize int, maxAge time.Duration) *BrowserPool {
	pool := &BrowserPool{
		instances: make([]*BrowserInstance, 0, maxSize),
		maxSize:   maxSize,
		maxAge:    maxAge,
		waitQueue: make(chan chan *BrowserInstance, 100),
		log:       logger.GetLogger().WithField("component", "browser_pool"),
	}

	pool.log.Info("Browser pool created", logger.Fields{
		"max_size":        maxSize,
		"max_age_minutes": maxAge.Minutes(),
	})

	go pool.backgroundCleanup()
	return pool
}

// Get returns an idle instance, creating one if the pool has capacity, or
// waits for a returned instance until ctx expires.
func (p *BrowserPool) Get(ctx context.Context) (*BrowserInstance, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, errors.New("browser pool is closed")
	}
	for _, instance := range p.instances {
		if !instance.InUse && time.Since(instance.Created) < p.maxAge {
			instance.InUse = true
			p.mu.Unlock()
			return instance, nil
		}
	}
	if len(p.instances) < p.maxSize {
		instance, err := p.createInstance()
		if err != nil {
			p.mu.Unlock()
			return nil, err
		}
		instance.InUse = true
		p.instances = append(p.instances, instance)
		p.mu.Unlock()
		return instance, nil
	}
	p.mu.Unlock()

	p.log.Debug("Browser pool full, waiting for available instance")
	waitChan := make(chan *BrowserInstance, 1)
	select {
	case p.waitQueue <- waitChan:
		select {
		case instance := <-waitChan:
			p.log.Debug("Got instance from wait queue")
			return instance, nil
		case <-ctx.Done():
			p.log.Warn("Timeout waiting for browser instance")
			return nil, errors.New("timeout waiting for browser instance")
		}
	default:
		p.log.Error("Browser pool full and wait queue full")
		return nil, errors.New("browser pool is full, cannot create new instance")
	}
}

// Put returns an instance to the pool, handing it to a waiter if one is
// queued and retiring it if it has aged out.
func (p *BrowserPool) Put(instance *BrowserInstance) {
	if instance == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if time.Since(instance.Created) >= p.maxAge {
		p.removeInstance(instance)
		go p.cleanupInstance(instance)
		return
	}

	select {
	case waitChan := <-p.waitQueue:
		instance.InUse = true
		waitChan <- instance
	default:
		instance.InUse = false
	}
}

func (p *BrowserPool) createInstance() (*BrowserInstance, error) {
	p.log.Debug("Creating new browser instance")

	l := launcher.New().
		Set("no-sandbox", "").
		Set("disable-dev-shm-usage", "").
		Set("disable-gpu", "").
		Headless(true)
	u, err := l.Launch()
	if err != nil {
		p.log.Error("Failed to launch browser", logger.Fields{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	return &BrowserInstance{
		Browser:  browser,
		Launcher: l,
		Created:  time.Now(),
	}, nil
}

func (p *BrowserPool) cleanupExpired() {
	var valid []*BrowserInstance
	var expired []*BrowserInstance
	for _, instance := range p.instances {
		if time.Since(instance.Created) >= p.maxAge || instance.Browser == nil {
			expired = append(expired, instance)
		} else {
			valid = append(valid, instance)
		}
	}

	if len(expired) > 0 {
		p.log.Info("Cleaning up expired browser instances", logger.Fields{
			"expired_count":   len(expired),
			"remaining_count": len(valid),
		})
	}

	p.instances = valid
	for _, instance := range expired {
		go p.cleanupInstance(instance)
	}
}

func (p *BrowserPool) removeInstance(target *BrowserInstance) {
	for i, instance := range p.instances {
		if instance == target {
			p.instances = append(p.instances[:i], p.instances[i+1:]...)
			break
		}
	}
}

func (p *BrowserPool) cleanupInstance(instance *BrowserInstance) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("Panic during browser cleanup", logger.Fields{"panic": r})
		}
	}()
	if instance.Browser != nil {
		if err := instance.Browser.Close(); err != nil {
			p.log.Warn("Browser close failed, will force kill launcher", logger.Fields{
				"error": err.Error(),
			})
		}
	}
	if instance.Launcher != nil {
		instance.Launcher.Kill()
		time.Sleep(100 * time.Millisecond)
	}
}

func (p *BrowserPool) backgroundCleanup() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			return
		}
		p.cleanupExpired()
		p.mu.Unlock()
	}
}

// Close closes the pool and cleans up all instances.
func (p *BrowserPool) Close() {
	p.log.Info("Closing browser pool")

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	instances := p.instances
	p.instances = nil
	p.mu.Unlock()

	for _, instance := range instances {
		go p.cleanupInstance(instance)
	}

	close(p.waitQueue)
	p.log.Info("Browser pool closed")
}

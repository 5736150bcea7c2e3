package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/tmstore/pkg/config"
	clientv3 "go.etcd.io/etcd/client/v3"
)

const leaseTTLSeconds = 30

// Registrar announces this API instance in etcd under a leased key so load
// balancers and ops tooling can find running storefront instances. The key
// disappears on its own when the lease expires.
type Registrar struct {
	client *clientv3.Client
	config *config.EtcdConfig
	key    string
}

type instanceInfo struct {
	Name         string    `json:"name"`
	Host         string    `json:"host"`
	Port         int       `json:"port"`
	RegisteredAt time.Time `json:"registered_at"`
}

func NewRegistrar(cfg *config.EtcdConfig) (*Registrar, error) {
	cli, err := clientv3.New(clientv3.Config{
		Endpoints:   cfg.Endpoints,
		DialTimeout: cfg.DialTimeout * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to etcd: %w", err)
	}
	return &Registrar{client: cli, config: cfg}, nil
}

func (r *Registrar) Register(ctx context.Context, name, host string, port int) error {
	r.key = fmt.Sprintf("%s%s/%s:%d", r.config.Prefix, name, host, port)

	value, err := json.Marshal(instanceInfo{
		Name:         name,
		Host:         host,
		Port:         port,
		RegisteredAt: time.Now(),
	})
	if err != nil {
		return err
	}

	lease, err := r.client.Grant(ctx, leaseTTLSeconds)
	if err != nil {
		return fmt.Errorf("failed to create lease: %w", err)
	}

	if _, err := r.client.Put(ctx, r.key, string(value), clientv3.WithLease(lease.ID)); err != nil {
		return fmt.Errorf("failed to register instance: %w", err)
	}

	ch, err := r.client.KeepAlive(ctx, lease.ID)
	if err != nil {
		return fmt.Errorf("failed to keep lease alive: %w", err)
	}
	go func() {
		for range ch {
		}
	}()

	return nil
}

func (r *Registrar) Deregister(ctx context.Context) error {
	if r.key == "" {
		return nil
	}
	if _, err := r.client.Delete(ctx, r.key); err != nil {
		return fmt.Errorf("failed to deregister instance: %w", err)
	}
	return nil
}

func (r *Registrar) Close() error {
	return r.client.Close()
}

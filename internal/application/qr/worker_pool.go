package qr

import (
	"context"
	"sort"
	"sync"
)

// VoucherJob is one voucher generation unit of work in a disbursement run.
type VoucherJob struct {
	Request Request
	Index   int
}

// VoucherResult is the outcome of one job. Err is the structured validation
// error list when generation was rejected.
type VoucherResult struct {
	Index   int
	TokenID string
	Payload string
	Err     error
}

// VoucherWorkerPool generates voucher payloads concurrently. Generation is
// pure CPU work plus a best-effort vault write, so a small fixed pool keeps
// large disbursement batches from serializing.
type VoucherWorkerPool struct {
	workerCount int
	jobChan     chan VoucherJob
	resultChan  chan VoucherResult
	service     *Service
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
}

// NewVoucherWorkerPool creates a pool of workerCount workers bound to ctx.
func NewVoucherWorkerPool(ctx context.Context, workerCount int, service *Service) *VoucherWorkerPool {
	poolCtx, cancel := context.WithCancel(ctx)
	return &VoucherWorkerPool{
		workerCount: workerCount,
		jobChan:     make(chan VoucherJob, workerCount*2),
		resultChan:  make(chan VoucherResult, workerCount*2),
		service:     service,
		ctx:         poolCtx,
		cancel:      cancel,
	}
}

// Start launches the workers.
func (p *VoucherWorkerPool) Start() {
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// Stop drains the pool gracefully.
func (p *VoucherWorkerPool) Stop() {
	close(p.jobChan)
	p.wg.Wait()
	p.cancel()
	close(p.resultChan)
}

// Submit queues a job, failing only when the pool context is done.
func (p *VoucherWorkerPool) Submit(job VoucherJob) error {
	select {
	case p.jobChan <- job:
		return nil
	case <-p.ctx.Done():
		return p.ctx.Err()
	}
}

// Results returns the channel results arrive on.
func (p *VoucherWorkerPool) Results() <-chan VoucherResult {
	return p.resultChan
}

func (p *VoucherWorkerPool) worker() {
	defer p.wg.Done()

	for job := range p.jobChan {
		payload, err := p.service.Generate(p.ctx, job.Request)
		result := VoucherResult{
			Index:   job.Index,
			TokenID: job.Request.TokenVaultID,
			Payload: payload,
			Err:     err,
		}

		select {
		case p.resultChan <- result:
		case <-p.ctx.Done():
			return
		}
	}
}

// GenerateVouchers runs a whole disbursement batch through a pool and
// returns the results in submission order.
func (s *Service) GenerateVouchers(ctx context.Context, requests []Request, workerCount int) []VoucherResult {
	if workerCount <= 0 {
		workerCount = 1
	}
	if len(requests) == 0 {
		return nil
	}

	pool := NewVoucherWorkerPool(ctx, workerCount, s)
	pool.Start()

	go func() {
		for i, req := range requests {
			if err := pool.Submit(VoucherJob{Request: req, Index: i}); err != nil {
				break
			}
		}
		pool.Stop()
	}()

	results := make([]VoucherResult, 0, len(requests))
	for result := range pool.Results() {
		results = append(results, result)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Index < results[j].Index })
	return results
}

package telemetry

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Entry - одна запись лога, уходящая во внешний агрегатор.
type Entry struct {
	ID        string                 `json:"id"`
	Service   string                 `json:"service"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Timestamp time.Time              `json:"timestamp"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// Publisher - транспорт доставки записей во внешнюю систему.
type Publisher interface {
	PublishLogEntry(ctx context.Context, entry *Entry) error
}

// Shipper - асинхронная отправка логов. Очередь ограничена: при
// переполнении запись отбрасывается, путь запроса никогда не блокируется
// и не падает из-за телеметрии.
type Shipper struct {
	publisher Publisher
	queue     chan *Entry
	stop      chan struct{}
	closed    atomic.Bool
	dropped   atomic.Int64
	log       *zap.Logger
	wg        sync.WaitGroup
	stopOnce  sync.Once
}

func NewShipper(publisher Publisher, buffer int, log *zap.Logger) *Shipper {
	if buffer <= 0 {
		buffer = 256
	}

	s := &Shipper{
		publisher: publisher,
		queue:     make(chan *Entry, buffer),
		stop:      make(chan struct{}),
		log:       log,
	}

	s.wg.Add(1)
	go s.run()

	return s
}

// Enqueue ставит запись в очередь отправки, не блокируясь.
// После Drain записи молча отбрасываются: канал очереди никогда не
// закрывается, поэтому логирование на пути завершения безопасно.
func (s *Shipper) Enqueue(entry *Entry) {
	if s.closed.Load() {
		s.dropped.Add(1)
		return
	}

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	select {
	case s.queue <- entry:
	default:
		// очередь забита - телеметрия не важнее запроса
		s.dropped.Add(1)
	}
}

// Dropped возвращает количество отброшенных записей.
func (s *Shipper) Dropped() int64 {
	return s.dropped.Load()
}

// Drain останавливает отправку и дожидается опустошения очереди
// либо истечения ctx.
func (s *Shipper) Drain(ctx context.Context) error {
	s.closed.Store(true)
	s.stopOnce.Do(func() { close(s.stop) })

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Shipper) run() {
	defer s.wg.Done()

	for {
		select {
		case entry := <-s.queue:
			s.publish(entry)
		case <-s.stop:
			// дотягиваем накопленное и выходим
			for {
				select {
				case entry := <-s.queue:
					s.publish(entry)
				default:
					return
				}
			}
		}
	}
}

func (s *Shipper) publish(entry *Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.publisher.PublishLogEntry(ctx, entry); err != nil {
		// ошибки доставки глотаем: только локальный лог
		s.log.Warn("failed to ship log entry",
			zap.String("entry_id", entry.ID),
			zap.Error(err),
		)
	}
}

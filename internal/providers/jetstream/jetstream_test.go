package jetstream_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-uniques-indexer/internal/adapter"
	"github.com/feral-file/ff-uniques-indexer/internal/domain"
	"github.com/feral-file/ff-uniques-indexer/internal/logger"
	"github.com/feral-file/ff-uniques-indexer/internal/messaging"
	"github.com/feral-file/ff-uniques-indexer/internal/mocks"
	js "github.com/feral-file/ff-uniques-indexer/internal/providers/jetstream"
)

func TestMain(m *testing.M) {
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

var testConfig = js.Config{
	URL:            "nats://localhost:4222",
	StreamName:     "blocks",
	ConsumerName:   "uniques-indexer",
	Subject:        "blocks.statemine",
	MaxReconnects:  10,
	ReconnectWait:  time.Second,
	ConnectionName: "test-indexer",
	AckWait:        time.Minute,
	MaxDeliver:     -1,
	FetchSize:      100,
	FetchMaxWait:   time.Second,
}

type testMocks struct {
	ctrl      *gomock.Controller
	natsJS    *mocks.MockNatsJetStream
	natsConn  *mocks.MockNatsConn
	jetStream *mocks.MockJetStream
	consumer  *mocks.MockNatsConsumer
}

func setupMocks(t *testing.T) *testMocks {
	ctrl := gomock.NewController(t)
	return &testMocks{
		ctrl:      ctrl,
		natsJS:    mocks.NewMockNatsJetStream(ctrl),
		natsConn:  mocks.NewMockNatsConn(ctrl),
		jetStream: mocks.NewMockJetStream(ctrl),
		consumer:  mocks.NewMockNatsConsumer(ctrl),
	}
}

func newTestSource(t *testing.T, tm *testMocks) messaging.BatchSource {
	tm.natsJS.EXPECT().
		Connect(testConfig.URL, gomock.Any()).
		Return(tm.natsConn, tm.jetStream, nil)
	tm.jetStream.EXPECT().
		CreateOrUpdateConsumer(gomock.Any(), testConfig.StreamName, jetstream.ConsumerConfig{
			Durable:       testConfig.ConsumerName,
			AckPolicy:     jetstream.AckExplicitPolicy,
			AckWait:       testConfig.AckWait,
			MaxDeliver:    testConfig.MaxDeliver,
			FilterSubject: testConfig.Subject,
		}).
		Return(tm.consumer, nil)
	tm.consumer.EXPECT().
		Info(gomock.Any()).
		Return(&jetstream.ConsumerInfo{Name: testConfig.ConsumerName}, nil)

	source, err := js.NewSource(context.Background(), testConfig, tm.natsJS, adapter.NewJSON())
	require.NoError(t, err)
	return source
}

func blockMessage(t *testing.T, ctrl *gomock.Controller, height uint64) *mocks.MockJetStreamMessage {
	data, err := json.Marshal(domain.Block{
		Height:    height,
		Hash:      "0x" + domain.EventID(height, 0),
		Timestamp: time.Unix(1700000000, 0).UTC(),
		Events: []domain.Event{{
			Index:   0,
			Kind:    domain.EventBalancesTransfer,
			Version: domain.SchemaV1,
			Payload: json.RawMessage(`["0x01","0x02","10"]`),
		}},
	})
	require.NoError(t, err)

	msg := mocks.NewMockJetStreamMessage(ctrl)
	msg.EXPECT().Data().Return(data).AnyTimes()
	return msg
}

func TestSource_NewSource_ConnectError(t *testing.T) {
	tm := setupMocks(t)
	tm.natsJS.EXPECT().
		Connect(testConfig.URL, gomock.Any()).
		Return(nil, nil, errors.New("connection refused"))

	source, err := js.NewSource(context.Background(), testConfig, tm.natsJS, adapter.NewJSON())
	assert.Error(t, err)
	assert.Nil(t, source)
	assert.Contains(t, err.Error(), "failed to connect to NATS")
}

func TestSource_NewSource_ConsumerError(t *testing.T) {
	tm := setupMocks(t)
	tm.natsJS.EXPECT().
		Connect(testConfig.URL, gomock.Any()).
		Return(tm.natsConn, tm.jetStream, nil)
	tm.jetStream.EXPECT().
		CreateOrUpdateConsumer(gomock.Any(), testConfig.StreamName, gomock.Any()).
		Return(nil, errors.New("stream not found"))
	tm.natsConn.EXPECT().Close()

	source, err := js.NewSource(context.Background(), testConfig, tm.natsJS, adapter.NewJSON())
	assert.Error(t, err)
	assert.Nil(t, source)
	assert.Contains(t, err.Error(), "stream not found")
}

func TestSource_NextBatchAndAck(t *testing.T) {
	tm := setupMocks(t)
	source := newTestSource(t, tm)
	ctx := context.Background()

	first := blockMessage(t, tm.ctrl, 11)
	second := blockMessage(t, tm.ctrl, 10)
	tm.consumer.EXPECT().
		Fetch(testConfig.FetchSize, gomock.Any()).
		Return([]adapter.Message{first, second}, nil)

	batch, err := source.NextBatch(ctx)
	require.NoError(t, err)
	require.Len(t, batch.Blocks, 2)
	assert.Equal(t, uint64(11), batch.Blocks[0].Height)
	assert.Equal(t, uint64(10), batch.Blocks[1].Height)
	assert.Equal(t, domain.EventBalancesTransfer, batch.Blocks[0].Events[0].Kind)
	assert.Equal(t, 2, batch.EventCount())

	_, err = source.NextBatch(ctx)
	assert.ErrorIs(t, err, js.ErrBatchPending)

	first.EXPECT().Ack().Return(nil)
	second.EXPECT().Ack().Return(nil)
	require.NoError(t, source.Ack(ctx))

	// settling twice is a no-op
	require.NoError(t, source.Ack(ctx))
}

func TestSource_MalformedBlockFailsBatch(t *testing.T) {
	tm := setupMocks(t)
	source := newTestSource(t, tm)
	ctx := context.Background()

	first := blockMessage(t, tm.ctrl, 11)
	second := blockMessage(t, tm.ctrl, 10)
	malformed := mocks.NewMockJetStreamMessage(tm.ctrl)
	malformed.EXPECT().Data().Return([]byte("not a block"))

	tm.consumer.EXPECT().
		Fetch(testConfig.FetchSize, gomock.Any()).
		Return([]adapter.Message{first, malformed, second}, nil)

	// every fetched message goes back for redelivery
	first.EXPECT().Nak().Return(nil)
	malformed.EXPECT().Nak().Return(nil)
	second.EXPECT().Nak().Return(nil)

	batch, err := source.NextBatch(ctx)
	assert.Nil(t, batch)
	assert.ErrorIs(t, err, js.ErrMalformedBlock)
	assert.Contains(t, err.Error(), "message 2 of 3")

	// nothing is left pending, so the next call fetches again
	next := blockMessage(t, tm.ctrl, 12)
	tm.consumer.EXPECT().
		Fetch(testConfig.FetchSize, gomock.Any()).
		Return([]adapter.Message{next}, nil)

	batch, err = source.NextBatch(ctx)
	require.NoError(t, err)
	assert.Len(t, batch.Blocks, 1)
}

func TestSource_Nak(t *testing.T) {
	tm := setupMocks(t)
	source := newTestSource(t, tm)
	ctx := context.Background()

	msg := blockMessage(t, tm.ctrl, 10)
	tm.consumer.EXPECT().
		Fetch(testConfig.FetchSize, gomock.Any()).
		Return([]adapter.Message{msg}, nil)

	_, err := source.NextBatch(ctx)
	require.NoError(t, err)

	msg.EXPECT().Nak().Return(errors.New("connection closed"))
	err = source.Nak(ctx)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to nak 1 of 1 messages")
}

func TestSource_WaitsThroughEmptyFetches(t *testing.T) {
	tm := setupMocks(t)
	source := newTestSource(t, tm)

	msg := blockMessage(t, tm.ctrl, 10)
	gomock.InOrder(
		tm.consumer.EXPECT().Fetch(testConfig.FetchSize, gomock.Any()).Return(nil, nil),
		tm.consumer.EXPECT().Fetch(testConfig.FetchSize, gomock.Any()).Return([]adapter.Message{msg}, nil),
	)

	batch, err := source.NextBatch(context.Background())
	require.NoError(t, err)
	assert.Len(t, batch.Blocks, 1)
}

func TestSource_RetriesTransientFetchErrors(t *testing.T) {
	tm := setupMocks(t)
	source := newTestSource(t, tm)

	msg := blockMessage(t, tm.ctrl, 10)
	gomock.InOrder(
		tm.consumer.EXPECT().Fetch(testConfig.FetchSize, gomock.Any()).Return(nil, errors.New("nats: timeout")),
		tm.consumer.EXPECT().Fetch(testConfig.FetchSize, gomock.Any()).Return([]adapter.Message{msg}, nil),
	)

	batch, err := source.NextBatch(context.Background())
	require.NoError(t, err)
	assert.Len(t, batch.Blocks, 1)
}

func TestSource_StopsOnCanceledContext(t *testing.T) {
	tm := setupMocks(t)
	source := newTestSource(t, tm)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := source.NextBatch(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSource_Close(t *testing.T) {
	tm := setupMocks(t)
	source := newTestSource(t, tm)

	tm.natsConn.EXPECT().Close()
	source.Close()
}

func TestPublisher_PublishBlock(t *testing.T) {
	tm := setupMocks(t)
	tm.natsJS.EXPECT().
		Connect(testConfig.URL, gomock.Any()).
		Return(tm.natsConn, tm.jetStream, nil)

	publisher, err := js.NewPublisher(testConfig, tm.natsJS, adapter.NewJSON())
	require.NoError(t, err)

	block := &domain.Block{Height: 42, Hash: "0x2a", Timestamp: time.Unix(1700000000, 0).UTC()}
	tm.jetStream.EXPECT().
		Publish(gomock.Any(), testConfig.Subject, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, data []byte, _ ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
			var got domain.Block
			require.NoError(t, json.Unmarshal(data, &got))
			assert.Equal(t, uint64(42), got.Height)
			assert.Equal(t, "0x2a", got.Hash)
			return &jetstream.PubAck{Stream: testConfig.StreamName, Sequence: 1}, nil
		})

	require.NoError(t, publisher.PublishBlock(context.Background(), block))
}

func TestPublisher_MarshalError(t *testing.T) {
	tm := setupMocks(t)
	jsonMock := mocks.NewMockJSON(tm.ctrl)
	tm.natsJS.EXPECT().
		Connect(testConfig.URL, gomock.Any()).
		Return(tm.natsConn, tm.jetStream, nil)

	publisher, err := js.NewPublisher(testConfig, tm.natsJS, jsonMock)
	require.NoError(t, err)

	jsonMock.EXPECT().Marshal(gomock.Any()).Return(nil, errors.New("unsupported value"))

	err = publisher.PublishBlock(context.Background(), &domain.Block{Height: 1})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to marshal block 1")
}

func TestPublisher_Close(t *testing.T) {
	tm := setupMocks(t)
	tm.natsJS.EXPECT().
		Connect(testConfig.URL, gomock.Any()).
		Return(tm.natsConn, tm.jetStream, nil)

	publisher, err := js.NewPublisher(testConfig, tm.natsJS, adapter.NewJSON())
	require.NoError(t, err)

	tm.natsConn.EXPECT().Close()
	publisher.Close()
}

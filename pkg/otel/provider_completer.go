package otel

import (
	"context"
	"iter"
	"time"

	"github.com/adrianliechti/sketchify/pkg/provider"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/semconv/v1.38.0/genaiconv"
)

type Completer interface {
	Observable
	provider.Completer
}

type observableCompleter struct {
	model    string
	provider string

	completer provider.Completer

	tokenUsageMetric        genaiconv.ClientTokenUsage
	operationDurationMetric genaiconv.ClientOperationDuration
}

func NewCompleter(provider, model string, p provider.Completer) Completer {
	meter := otel.Meter(instrumentationName)

	tokenUsageMetric, _ := genaiconv.NewClientTokenUsage(meter)
	operationDurationMetric, _ := genaiconv.NewClientOperationDuration(meter)

	return &observableCompleter{
		completer: p,

		model:    model,
		provider: provider,

		tokenUsageMetric:        tokenUsageMetric,
		operationDurationMetric: operationDurationMetric,
	}
}

func (p *observableCompleter) otelSetup() {
}

func (p *observableCompleter) Complete(ctx context.Context, messages []provider.Message, options *provider.CompleteOptions) iter.Seq2[*provider.Completion, error] {
	return func(yield func(*provider.Completion, error) bool) {
		ctx, span := otel.Tracer(instrumentationName).Start(ctx, "describe "+p.model)
		defer span.End()

		timestamp := time.Now()

		var acc provider.CompletionAccumulator

		for completion, err := range p.completer.Complete(ctx, messages, options) {
			if err != nil {
				recordError(span, err)

				yield(nil, err)
				return
			}

			acc.Add(*completion)

			if !yield(completion, nil) {
				return
			}
		}

		result := acc.Result()

		providerName := genaiconv.ProviderNameAttr(p.provider)
		providerModel := p.model

		if result.Model != "" {
			providerModel = result.Model
		}

		p.operationDurationMetric.Record(ctx, time.Since(timestamp).Seconds(),
			genaiconv.OperationNameChat,
			providerName,
			KeyValues([]KeyValue{
				p.operationDurationMetric.AttrRequestModel(p.model),
				p.operationDurationMetric.AttrResponseModel(providerModel),
			}, EndUserAttrs(ctx))...,
		)

		if result.Usage == nil {
			return
		}

		usage := map[genaiconv.TokenTypeAttr]int{
			genaiconv.TokenTypeInput:  result.Usage.InputTokens,
			genaiconv.TokenTypeOutput: result.Usage.OutputTokens,
		}

		for tokenType, count := range usage {
			if count <= 0 {
				continue
			}

			p.tokenUsageMetric.Record(ctx, int64(count),
				genaiconv.OperationNameChat,
				providerName,
				tokenType,
				KeyValues([]KeyValue{
					p.tokenUsageMetric.AttrRequestModel(p.model),
					p.tokenUsageMetric.AttrResponseModel(providerModel),
				}, EndUserAttrs(ctx))...,
			)
		}
	}
}

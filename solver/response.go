package solver

import (
	"math"

	"github.com/samber/lo"

	"github.com/open-afc-project/openafc-sub001"
	"github.com/open-afc-project/openafc-sub001/afcmsg"
)

func invalidResponse(requestID string, err error) afcmsg.InquiryResponse {
	return afcmsg.InquiryResponse{
		RequestID:    requestID,
		ResponseCode: afcmsg.ResponseCode{Code: int(afc.CodeInvalidValue), Description: err.Error()},
	}
}

// fatalAsInvalid reports a catalog/terrain fatal error as a
// general-failure response for this one inquiry. Spec §7 treats
// catalog/raster not-found as fatal to the whole request; since Solve
// has no separate fatal-abort channel, the caller distinguishes a
// CodeGeneralFailure response and aborts the remaining inquiries if it
// chooses to.
func fatalAsInvalid(requestID string, err error) afcmsg.InquiryResponse {
	return afcmsg.InquiryResponse{
		RequestID:    requestID,
		ResponseCode: afcmsg.ResponseCode{Code: int(afc.CodeGeneralFailure), Description: err.Error()},
	}
}

// resolveRequestedChannels expands an inquiry's inquiredChannels and
// inquiredFrequencyRange entries into concrete channels to evaluate.
// Frequency-range requests are expanded against the finest (20 MHz,
// class 131) channelization, since the wire format names no explicit
// channelization for a pure frequency-range ask; see DESIGN.md.
func resolveRequestedChannels(inq afcmsg.Inquiry) []afcmsg.Channel {
	var out []afcmsg.Channel

	for _, ic := range inq.InquiredChannels {
		all := afcmsg.ChannelsForClass(ic.GlobalOperatingClass)
		if len(ic.ChannelCfi) == 0 {
			out = append(out, all...)
			continue
		}
		for _, cfi := range ic.ChannelCfi {
			if ch, ok := afcmsg.ResolveChannel(ic.GlobalOperatingClass, cfi); ok {
				out = append(out, ch)
			}
		}
	}

	for _, fr := range inq.InquiredFrequencyRange {
		for _, ch := range afcmsg.ChannelsForClass(131) {
			if ch.StartMHz >= fr.LowFreqMHz && ch.StopMHz <= fr.HighFreqMHz {
				out = append(out, ch)
			}
		}
	}

	return out
}

// buildOutputs reduces the per-channel results into the wire response
// arrays, per spec §4.J steps 4-5. Channels colored red or black are
// denied outright and excluded from availableChannelInfo; inquired-
// frequency requests reduce by taking the maximum permitted PSD among
// the channels in each requested bin that are not black (a red channel
// takes part at its clamped minimum EIRP).
func buildOutputs(inq afcmsg.Inquiry, results []channelResult) ([]afcmsg.AvailableChannelInfo, []afcmsg.AvailableFrequencyInfo) {
	var channelInfo []afcmsg.AvailableChannelInfo
	if len(inq.InquiredChannels) > 0 {
		available := lo.Filter(results, func(r channelResult, _ int) bool {
			return r.col != colorRed && r.col != colorBlack
		})
		byClass := lo.GroupBy(available, func(r channelResult) int {
			return r.channel.GlobalOperatingClass
		})
		// Uniq preserves first-seen order, so classes appear in the
		// response in the order they were first evaluated rather than
		// map iteration order.
		order := lo.Uniq(lo.Map(available, func(r channelResult, _ int) int {
			return r.channel.GlobalOperatingClass
		}))
		for _, cls := range order {
			entry := afcmsg.AvailableChannelInfo{GlobalOperatingClass: cls}
			for _, r := range byClass[cls] {
				entry.ChannelCfi = append(entry.ChannelCfi, r.channel.ChannelCFI)
				entry.MaxEirpDBm = append(entry.MaxEirpDBm, r.permitted)
			}
			channelInfo = append(channelInfo, entry)
		}
	}

	var freqInfo []afcmsg.AvailableFrequencyInfo
	for _, fr := range inq.InquiredFrequencyRange {
		inRange := lo.Filter(results, func(r channelResult, _ int) bool {
			return r.col != colorBlack && r.channel.StartMHz >= fr.LowFreqMHz && r.channel.StopMHz <= fr.HighFreqMHz
		})
		if len(inRange) == 0 {
			continue
		}
		best := lo.MaxBy(inRange, func(a, max channelResult) bool {
			return channelPSD(a) > channelPSD(max)
		})
		freqInfo = append(freqInfo, afcmsg.AvailableFrequencyInfo{
			FrequencyRange:  afcmsg.FrequencyRange{LowFreqMHz: fr.LowFreqMHz, HighFreqMHz: fr.HighFreqMHz},
			MaxPsdDBmPerMHz: channelPSD(best),
		})
	}

	return channelInfo, freqInfo
}

// channelPSD converts one channel's permitted EIRP to a power spectral
// density over its bandwidth, per spec §6's availableFrequencyInfo.
func channelPSD(r channelResult) float64 {
	return r.permitted - 10*math.Log10(r.channel.BandwidthMHz)
}

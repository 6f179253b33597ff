package services

import (
	"fmt"
	"sort"

	"station-api/internal/attachments"
	"station-api/internal/config"
	"station-api/internal/constants"
	"station-api/internal/utils"
)

// Collection keys, also the URL segment each resource is served under
const (
	Announcements = "announcements"
	Blotters      = "blotters"
	Clearances    = "clearances"
	Officers      = "officers"
)

// AttachmentService decodes, checks and summarizes attachments for every
// resource collection
type AttachmentService struct {
	resources map[string]attachments.Resource
	engine    *constants.ValidationEngine
	limits    config.AttachmentValidationConfig
}

// NewAttachmentService creates a new attachment service instance
func NewAttachmentService(cfg config.MainConfig) *AttachmentService {
	resources := make(map[string]attachments.Resource, len(cfg.Attachments.Resources))
	for key, rc := range cfg.Attachments.Resources {
		resources[key] = attachments.Resource{
			Key:  key,
			Name: rc.Name,
			Codec: attachments.NewCodec(attachments.Defaults{
				Filename: rc.DefaultFilename,
				Mimetype: rc.DefaultMimetype,
			}),
			Linker:           attachments.NewLinker(cfg.Server.BasePath, key),
			FallbackMimetype: rc.FallbackMimetype,
		}
	}

	return &AttachmentService{
		resources: resources,
		engine:    constants.NewValidationEngine(cfg.Attachments.Validation),
		limits:    cfg.Attachments.Validation,
	}
}

// Resource returns the attachment settings of a collection
func (s *AttachmentService) Resource(key string) attachments.Resource {
	if res, ok := s.resources[key]; ok {
		return res
	}
	return attachments.Resource{
		Key:    key,
		Name:   key,
		Codec:  attachments.NewCodec(attachments.Defaults{}),
		Linker: attachments.NewLinker("", key),
	}
}

// Decode converts submitted descriptors into records and checks each against
// the validation rules
func (s *AttachmentService) Decode(key string, ds attachments.Descriptors) (attachments.List, error) {
	records, err := s.Resource(key).Codec.DecodeAll(ds)
	if err != nil {
		return nil, err
	}
	if err := s.check(records, nil); err != nil {
		return nil, err
	}
	return records, nil
}

// Merge builds a replacement for existing, keeping referenced records and
// checking only the newly decoded ones
func (s *AttachmentService) Merge(key string, existing attachments.List, ds attachments.Descriptors) (attachments.List, error) {
	records, err := s.Resource(key).Codec.Merge(existing, ds)
	if err != nil {
		return nil, err
	}
	if err := s.check(records, existing); err != nil {
		return nil, err
	}
	return records, nil
}

// DecodeSingle decodes a singleton attachment such as a profile picture
func (s *AttachmentService) DecodeSingle(key string, ds attachments.Descriptors) (attachments.List, error) {
	if len(ds) > 1 {
		return nil, fmt.Errorf("%w: expected one, got %d", attachments.ErrTooManyAttachments, len(ds))
	}
	return s.Decode(key, ds)
}

// MergeSingle is Merge for a singleton attachment
func (s *AttachmentService) MergeSingle(key string, existing attachments.List, ds attachments.Descriptors) (attachments.List, error) {
	if len(ds) > 1 {
		return nil, fmt.Errorf("%w: expected one, got %d", attachments.ErrTooManyAttachments, len(ds))
	}
	return s.Merge(key, existing, ds)
}

func (s *AttachmentService) check(records, existing attachments.List) error {
	for i, rec := range records {
		if existing.Holds(rec) {
			continue
		}
		if err := s.engine.Check(rec.Filename, rec.Mimetype, rec.Size); err != nil {
			return fmt.Errorf("attachment %d: %w", i, err)
		}
	}
	return nil
}

// Summaries is the URL-bearing view of a parent's attachment list
func (s *AttachmentService) Summaries(key, parentID string, list attachments.List) []attachments.Summary {
	return s.Resource(key).Linker.Summarize(parentID, list)
}

// Picture is the URL-bearing view of a singleton attachment
func (s *AttachmentService) Picture(key, parentID string, rec *attachments.Record) *attachments.Summary {
	return s.Resource(key).Linker.SummarizeOne(parentID, rec)
}

// Limits describes the configured size limits and rules
func (s *AttachmentService) Limits() map[string]interface{} {
	rules := make([]map[string]interface{}, 0, len(s.limits.Rules))
	for _, rule := range s.limits.Rules {
		maxSize := s.limits.GetDefaultMaxFileSize()
		if rule.MaxSize != "" {
			if size, err := utils.ParseSizeString(rule.MaxSize); err == nil {
				maxSize = size
			}
		}
		rules = append(rules, map[string]interface{}{
			"name":       rule.Name,
			"allow":      rule.Allow,
			"max_size":   maxSize,
			"extensions": rule.Extensions,
			"patterns":   rule.Patterns,
			"mime_types": rule.MimeTypes,
		})
	}

	keys := make([]string, 0, len(s.resources))
	for key := range s.resources {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return map[string]interface{}{
		"default_max_size": s.limits.GetDefaultMaxFileSize(),
		"default_action":   s.limits.DefaultAction,
		"rules":            rules,
		"resources":        keys,
	}
}

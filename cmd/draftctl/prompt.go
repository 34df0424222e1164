package main

import (
	"fmt"

	"github.com/pscheid92/draftdesk/internal/domain"
	"github.com/pscheid92/draftdesk/internal/prompt"
	"github.com/spf13/cobra"
)

func newPromptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Render the prompt a tool would send to the model",
	}
	cmd.AddCommand(newPromptEmailCmd(), newPromptResumeCmd())
	return cmd
}

func newPromptEmailCmd() *cobra.Command {
	var req domain.EmailRequest

	cmd := &cobra.Command{
		Use:   "email",
		Short: "Render the business-email prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := prompt.Email(req)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), p)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Topic, "topic", "", "what the email is about")
	cmd.Flags().StringVar(&req.Tone, "tone", "", "tone of the email, e.g. formal")
	return cmd
}

func newPromptResumeCmd() *cobra.Command {
	var req domain.ResumeRequest

	cmd := &cobra.Command{
		Use:   "resume",
		Short: "Render the resume prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := prompt.Resume(req)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), p)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "full name")
	cmd.Flags().StringVar(&req.Role, "role", "", "target role")
	cmd.Flags().StringVar(&req.Skills, "skills", "", "skills")
	cmd.Flags().StringVar(&req.Experience, "experience", "", "work experience")
	cmd.Flags().StringVar(&req.Education, "education", "", "education")
	return cmd
}

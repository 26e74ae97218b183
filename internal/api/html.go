package api

// connectSuccessPage is served at the end of the connect flow. It opens
// in a browser tab launched from Cliq, so all it has to do is confirm
// and offer to close itself.
const connectSuccessPage = `<html>
  <head>
    <style>
      body {
        font-family: Inter, sans-serif;
        display: flex;
        align-items: center;
        justify-content: center;
        min-height: 100vh;
        margin: 0;
        background: #f5f5f5;
      }
      .card {
        background: white;
        padding: 2rem;
        border-radius: 8px;
        box-shadow: 0 2px 8px rgba(0,0,0,0.1);
        max-width: 400px;
        text-align: center;
      }
      .success {
        color: #10b981;
        font-size: 48px;
        margin-bottom: 1rem;
      }
      h1 { margin: 0 0 1rem; font-size: 1.5rem; }
      p { color: #666; margin: 0 0 1.5rem; }
      button {
        background: #3b82f6;
        color: white;
        border: none;
        padding: 0.75rem 1.5rem;
        border-radius: 6px;
        cursor: pointer;
        font-size: 1rem;
      }
    </style>
  </head>
  <body>
    <div class="card">
      <div class="success">&#10003;</div>
      <h1>Notion Connected!</h1>
      <p>Your Notion workspace is now connected to Zoho Cliq. You can close this window and return to Cliq.</p>
      <button onclick="window.close()">Close Window</button>
    </div>
  </body>
</html>`
